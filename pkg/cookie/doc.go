// Package cookie sets and reads plain, signed and encrypted HTTP cookies.
//
// Keys are derived from each configured secret with HKDF-SHA256, one for
// HMAC signing and one for AES-256-GCM, so the raw secret never keys a
// primitive directly. The first secret writes; all secrets are tried on read,
// which lets secrets rotate without invalidating live cookies. The cookie name
// is authenticated together with the value, so a value cannot be replayed
// under another name.
package cookie
