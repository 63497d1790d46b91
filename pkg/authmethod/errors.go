package authmethod

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

var (
	ErrOriginResolution   = errors.New("authmethod.origin_resolution")
	ErrUserInfoFetch      = errors.New("authmethod.userinfo_fetch")
	ErrLoginAfterSignup   = errors.New("authmethod.login_after_signup")
	ErrAuthLogic          = errors.New("authmethod.auth_logic")
	ErrIdentityIncomplete = identity.ErrIncomplete
)

// Error codes written to the client.
const (
	CodeIdentityIncomplete    = "identity_incomplete"
	CodeOriginResolution      = "origin_resolution"
	CodeTokenExchange         = "token_exchange"
	CodeUserInfoFetch         = "userinfo_fetch"
	CodeLoginAfterSignup      = "login_after_signup"
	CodeAuthLogic             = "auth_logic"
	CodeConfiguration         = "configuration"
	CodeUnknownProvider       = "unknown_provider"
	CodeUnregisteredURL       = "unregistered_url"
	CodeCapabilityUnavailable = "capability_unavailable"
	CodeInternal              = "internal_error"
)

// Classify maps a lifecycle error onto an HTTP status and a machine-readable code.
func Classify(err error) (status int, code string) {
	switch {
	case errors.Is(err, ErrIdentityIncomplete):
		return http.StatusBadRequest, CodeIdentityIncomplete
	case errors.Is(err, ErrOriginResolution):
		return http.StatusBadRequest, CodeOriginResolution
	case errors.Is(err, oauth.ErrTokenExchange):
		return http.StatusUnauthorized, CodeTokenExchange
	case errors.Is(err, ErrUserInfoFetch):
		return http.StatusBadGateway, CodeUserInfoFetch
	case errors.Is(err, ErrLoginAfterSignup):
		return http.StatusUnprocessableEntity, CodeLoginAfterSignup
	case errors.Is(err, ErrAuthLogic):
		return http.StatusInternalServerError, CodeAuthLogic
	case errors.Is(err, oauth.ErrConfiguration), errors.Is(err, oauth.ErrMetadataDiscovery):
		return http.StatusInternalServerError, CodeConfiguration
	case errors.Is(err, oauth.ErrUnknownProvider):
		return http.StatusInternalServerError, CodeUnknownProvider
	case errors.Is(err, oauth.ErrUnregisteredURL):
		return http.StatusInternalServerError, CodeUnregisteredURL
	case errors.Is(err, oauth.ErrCapabilityUnavailable):
		return http.StatusInternalServerError, CodeCapabilityUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
