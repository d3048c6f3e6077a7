package domain

// SecurityValidationResult is the request-scoped outcome of the security
// policy validator. Errors block the request, warnings are informational.
// Never persisted and never cached: IP and profile state can change between
// requests.
type SecurityValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// TwoFactorStatus describes the 2FA posture of a profile as exposed by the
// 2fa-status endpoint and consumed by elevated-operation checks.
type TwoFactorStatus struct {
	Enabled  bool `json:"enabled"`
	Verified bool `json:"verified"`
	Required bool `json:"required"`
}
