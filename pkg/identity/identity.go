package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Identity is the provider-agnostic user record handed to application login logic.
// JSON names follow the OpenID Connect standard claims.
type Identity struct {
	Subject             string         `json:"sub,omitempty"`
	DisplayName         string         `json:"name,omitempty"`
	GivenName           string         `json:"given_name,omitempty"`
	FamilyName          string         `json:"family_name,omitempty"`
	MiddleName          string         `json:"middle_name,omitempty"`
	Nickname            string         `json:"nickname,omitempty"`
	PreferredUsername   string         `json:"preferred_username,omitempty"`
	ProfileURL          string         `json:"profile,omitempty"`
	PictureURL          string         `json:"picture,omitempty"`
	Website             string         `json:"website,omitempty"`
	Email               string         `json:"email,omitempty"`
	EmailVerified       Flag           `json:"email_verified,omitzero"`
	Gender              string         `json:"gender,omitempty"`
	Birthdate           string         `json:"birthdate,omitempty"`
	Timezone            string         `json:"zoneinfo,omitempty"`
	Locale              string         `json:"locale,omitempty"`
	PhoneNumber         string         `json:"phone_number,omitempty"`
	PhoneNumberVerified Flag           `json:"phone_number_verified,omitzero"`
	Address             string         `json:"address,omitempty"`
	UpdatedAt           string         `json:"updated_at,omitempty"`
	Extra               map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy whose Extra is independent of the receiver's,
// including nested JSON objects and arrays.
func (i Identity) Clone() Identity {
	if i.Extra != nil {
		i.Extra = cloneValue(i.Extra).(map[string]any)
	}
	return i
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// ErrIncomplete is the sentinel behind every IncompleteError.
var ErrIncomplete = errors.New("identity: incomplete")

// IncompleteError reports a payload that cannot satisfy a provider's mandatory fields.
type IncompleteError struct {
	Provider string
	Field    string
	Reason   string
	Hint     string // remediation shown to the end user
	URI      string // where the user can fix it, if known
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("identity: %s payload has unusable %q: %s", e.Provider, e.Field, e.Reason)
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

// SplitName splits a display name into given and family name.
// The name must be exactly two non-empty words separated by a single space.
func SplitName(name string) (given, family string, err error) {
	parts := strings.Split(name, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot split %q into given and family name: expected exactly two words separated by one space", name)
	}
	return parts[0], parts[1], nil
}
