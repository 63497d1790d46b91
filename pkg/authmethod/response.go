package authmethod

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
)

// TokenResponse is the body of a successful callback.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorResponse is the body of a failed login or callback.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
	URI     string `json:"uri,omitempty"`
}

func newTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

// newErrorResponse builds the error body. Server-side failures only expose
// the status text.
func newErrorResponse(err error) (int, ErrorResponse) {
	status, code := Classify(err)

	detail := ErrorDetail{Code: code, Message: http.StatusText(status)}
	if status < http.StatusInternalServerError {
		detail.Message = err.Error()
	}

	var incomplete *identity.IncompleteError
	if errors.As(err, &incomplete) {
		detail.Hint = incomplete.Hint
		detail.URI = incomplete.URI
	}
	return status, ErrorResponse{Error: detail}
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
