package echo

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/chathub-dev/chathub/domain"
	apierrors "github.com/chathub-dev/chathub/errors"
)

// sessionIDHeader carries the session identifier on session endpoints.
const sessionIDHeader = "X-Session-Id"

// userView is the profile shape returned to clients.
type userView struct {
	UID            string                `json:"uid"`
	Email          string                `json:"email"`
	IsAdmin        bool                  `json:"isAdmin"`
	IsReadOnly     bool                  `json:"isReadOnly"`
	EmailVerified  bool                  `json:"emailVerified"`
	PhoneVerified  bool                  `json:"phoneVerified"`
	ApprovalStatus domain.ApprovalStatus `json:"approvalStatus"`
}

func newUserView(p *domain.UserProfile) userView {
	return userView{
		UID:            p.UID,
		Email:          p.Email,
		IsAdmin:        p.IsAdmin,
		IsReadOnly:     p.IsReadOnly,
		EmailVerified:  p.EmailVerified,
		PhoneVerified:  p.PhoneVerified,
		ApprovalStatus: p.ApprovalStatus,
	}
}

// ValidateHandler runs the full security policy validation for the
// authenticated request and returns the itemized result. Validation is
// recomputed on every call; nothing here is cached.
func (a *API) ValidateHandler(c echo.Context) error {
	identity := identityFrom(c)
	profile := profileFrom(c)

	result := a.policy.Validate(c.Request().Context(), identity, ClientIP(c), c.Request().UserAgent(), profile)
	if !result.Valid {
		return jsonError(c, apierrors.NewValidationFailed(result.Errors, result.Warnings))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"valid":    true,
		"user":     newUserView(profile),
		"security": result,
	})
}

// CreateSessionHandler creates a session for the authenticated user. The
// concurrent-session cap surfaces as 429, never 401; clients depend on the
// distinction.
func (a *API) CreateSessionHandler(c echo.Context) error {
	identity := identityFrom(c)

	session, err := a.sessions.CreateSession(c.Request().Context(), identity.UID, ClientIP(c), c.Request().UserAgent())
	if err != nil {
		if errors.Is(err, domain.ErrTooManySessions) {
			return jsonError(c, apierrors.NewPolicyViolation("too many concurrent sessions"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to create session")
		return jsonError(c, apierrors.NewInternal())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"sessionId": session.ID,
		"expiresAt": session.ExpiresAt,
	})
}

// GetSessionHandler validates the session named by the X-Session-Id header.
// Expired and missing sessions both return 401 with distinct detail strings,
// and another user's session reads as missing; a user over the concurrency
// cap gets 429.
func (a *API) GetSessionHandler(c echo.Context) error {
	identity := identityFrom(c)

	sessionID := c.Request().Header.Get(sessionIDHeader)
	if sessionID == "" {
		return jsonError(c, apierrors.NewInvalidRequest("missing "+sessionIDHeader+" header"))
	}

	ctx := c.Request().Context()
	session, err := a.sessions.ValidateSession(ctx, identity.UID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			apiErr := apierrors.NewUnauthenticated("session expired")
			apiErr.Details = []string{"session_expired"}
			return jsonError(c, apiErr)
		case errors.Is(err, domain.ErrSessionNotFound):
			apiErr := apierrors.NewUnauthenticated("session not found")
			apiErr.Details = []string{"session_not_found"}
			return jsonError(c, apiErr)
		default:
			log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to validate session")
			return jsonError(c, apierrors.NewInternal())
		}
	}

	ok, err := a.sessions.CheckConcurrentSessions(ctx, identity.UID, sessionID)
	if err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to check concurrent sessions")
		return jsonError(c, apierrors.NewInternal())
	}
	if !ok {
		return jsonError(c, apierrors.NewPolicyViolation("too many concurrent sessions"))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"valid":   true,
		"session": session,
	})
}

// DeleteSessionHandler revokes the caller's session (logout). Sessions owned
// by other users behave as missing.
func (a *API) DeleteSessionHandler(c echo.Context) error {
	identity := identityFrom(c)

	sessionID := c.Request().Header.Get(sessionIDHeader)
	if sessionID == "" {
		return jsonError(c, apierrors.NewInvalidRequest("missing "+sessionIDHeader+" header"))
	}

	ctx := c.Request().Context()
	if _, err := a.sessions.ValidateSession(ctx, identity.UID, sessionID); err != nil {
		return jsonError(c, apierrors.NewNotFound("session not found"))
	}

	if err := a.sessions.RevokeSession(ctx, sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to revoke session")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.NoContent(http.StatusNoContent)
}

// TwoFAStatusHandler reports the 2FA posture of the authenticated profile.
func (a *API) TwoFAStatusHandler(c echo.Context) error {
	profile := profileFrom(c)
	status := a.policy.TwoFactorStatus(profile)

	return c.JSON(http.StatusOK, echo.Map{
		"enabled":   status.Enabled,
		"verified":  status.Verified,
		"required":  status.Required,
		"email":     profile.Email,
		"timestamp": time.Now().UTC(),
	})
}

// IPValidationHandler reports allow-list membership for the client IP.
// The one auth endpoint that requires no bearer token.
func (a *API) IPValidationHandler(c echo.Context) error {
	ip := ClientIP(c)

	return c.JSON(http.StatusOK, echo.Map{
		"ip":        ip,
		"allowed":   a.policy.IPAllowed(ip),
		"timestamp": time.Now().UTC(),
	})
}
