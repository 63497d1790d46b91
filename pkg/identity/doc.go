// Package identity defines the canonical user identity produced by provider
// normalizers and the helpers those normalizers are built from.
//
// A normalizer reads a raw userinfo document through a Payload, assigning
// named attributes as it goes, and stores whatever it did not consume in
// Identity.Extra:
//
//	p := identity.NewPayload(raw)
//	id := identity.Identity{
//		Subject: p.String("id"),
//		Email:   p.String("email"),
//	}
//	id.Extra = p.Remaining()
//
// Verification markers arrive as strings, integers or booleans depending on
// the provider. Flag keeps whichever representation was sent; call Truthy
// when a plain boolean is needed.
package identity
