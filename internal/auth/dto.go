package auth

import "strings"

// LoginDTO is the transport shape for login requests. ReturnURL is echoed
// back by the guard when it bounced an unauthenticated navigation here.
type LoginDTO struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Remember  bool   `json:"remember,omitempty"`
	ReturnURL string `json:"returnUrl,omitempty"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields before any network or database work.
func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Username) == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// RedirectTarget resolves where a successful login should land. Only
// same-origin relative paths are honored; anything else falls back to the
// application root.
func (d LoginDTO) RedirectTarget() string {
	target := strings.TrimSpace(d.ReturnURL)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

// Validate for refresh token DTO
func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}
