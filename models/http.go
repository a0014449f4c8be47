package models

// ClaimRequest is the JSON body of the account claim (first password set)
// endpoint.
type ClaimRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the JSON body of the password change endpoint.
// The caller must already hold an authenticated session.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// WriteFieldRequest is the JSON body of the PII field write endpoint.
type WriteFieldRequest struct {
	Value string `json:"value"`
}

// WriteFieldResponse is the JSON shape of the PII field write result.
// Degraded reports that the value was stored unencrypted because no session
// data key was available.
type WriteFieldResponse struct {
	Name     string `json:"name"`
	Degraded bool   `json:"degraded"`
}

// FieldResponse is the JSON shape of a single PII field read.
type FieldResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FieldsResponse is the JSON shape of a batch PII field read. Values follow
// the requested field order; inaccessible encrypted values are returned as
// the degradation sentinel, never as errors.
type FieldsResponse struct {
	Fields []FieldResponse `json:"fields"`
}

// ErrorResponse is the JSON shape of user-facing error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}
