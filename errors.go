package oauthkit

import "github.com/dmitrymomot/oauthkit/pkg/oauth"

// ErrConfiguration is returned for an invalid App setup.
var ErrConfiguration = oauth.ErrConfiguration
