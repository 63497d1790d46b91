// Package requestid assigns a correlation id to every request, echoes it in
// the X-Request-ID response header and exposes it to the logger through a
// context extractor.
package requestid
