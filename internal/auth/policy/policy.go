package policy

import (
	"context"

	"github.com/chathub-dev/chathub/domain"
	"github.com/chathub-dev/chathub/internal/audit"
	"github.com/chathub-dev/chathub/internal/metrics"
	"github.com/rs/zerolog/log"
)

// UnknownIP is the placeholder recorded when no client IP header is present.
// It never matches an allow-list entry.
const UnknownIP = "unknown"

// Config carries the security policy knobs.
type Config struct {
	// AllowedIPs is the IP allow-list. An empty list disables the check.
	AllowedIPs []string
	// RequireEmailVerification makes an unverified email a hard failure.
	RequireEmailVerification bool
}

// Validator aggregates the per-request security checks into a single
// pass/fail decision with itemized errors and warnings. Results are
// recomputed per request and never cached: IP and profile state can change
// between requests.
type Validator struct {
	cfg      Config
	userRepo domain.UserRepository
}

// NewValidator creates a new Validator.
func NewValidator(cfg Config, userRepo domain.UserRepository) *Validator {
	return &Validator{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// IPAllowed reports whether the client IP passes the allow-list. An empty
// allow-list admits everything; the "unknown" placeholder never matches.
func (v *Validator) IPAllowed(ip string) bool {
	if len(v.cfg.AllowedIPs) == 0 {
		return true
	}
	if ip == "" || ip == UnknownIP {
		return false
	}
	for _, allowed := range v.cfg.AllowedIPs {
		if ip == allowed {
			return true
		}
	}
	return false
}

// TwoFactorStatus computes the 2FA posture of a profile. A second factor is
// required only when it is enabled and anchored to a verified email.
func (v *Validator) TwoFactorStatus(profile *domain.UserProfile) domain.TwoFactorStatus {
	return domain.TwoFactorStatus{
		Enabled:  profile.TwoFactorEnabled,
		Verified: profile.TwoFactorVerified,
		Required: profile.TwoFactorEnabled && profile.EmailVerified,
	}
}

// Validate runs every check and returns the aggregated result. As a one-time
// side effect, an admin profile still pending approval is upgraded to
// approved; repeat validations perform no further writes.
func (v *Validator) Validate(ctx context.Context, identity *domain.Identity, ip, userAgent string, profile *domain.UserProfile) domain.SecurityValidationResult {
	result := domain.SecurityValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if !v.IPAllowed(ip) {
		result.Errors = append(result.Errors, "ip address not in allow-list: "+ip)
	}

	if v.cfg.RequireEmailVerification && !profile.EmailVerified {
		result.Errors = append(result.Errors, "email address not verified")
	}

	if !profile.PhoneVerified {
		result.Warnings = append(result.Warnings, "phone number not verified")
	}

	// Admins created before approval workflows landed sit in pending
	// forever; upgrade them on first validated login.
	if profile.IsAdmin && profile.ApprovalStatus == domain.ApprovalStatusPending {
		if err := v.userRepo.SetApprovalStatus(ctx, profile.UID, domain.ApprovalStatusApproved); err != nil {
			log.Error().Err(err).Str("uid", profile.UID).Msg("Failed to auto-approve admin profile")
			result.Errors = append(result.Errors, "approval status update failed")
		} else {
			profile.ApprovalStatus = domain.ApprovalStatusApproved
			audit.Log("SecurityPolicy", "AutoApproveAdmin", identity.UID, profile.UID, "Pending admin auto-approved", true, nil)
			log.Info().Str("uid", profile.UID).Msg("Pending admin profile auto-approved")
		}
	}

	result.Valid = len(result.Errors) == 0
	if !result.Valid {
		metrics.PolicyDenialsTotal.Inc()
		audit.Log("SecurityPolicy", "Validate", identity.UID, profile.UID, "Security validation failed", false, nil)
		log.Warn().
			Str("uid", identity.UID).
			Str("ip", ip).
			Str("user_agent", userAgent).
			Strs("errors", result.Errors).
			Msg("Security validation failed")
	}

	return result
}
