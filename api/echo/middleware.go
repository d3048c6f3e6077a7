package echo

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/chathub-dev/chathub/domain"
	apierrors "github.com/chathub-dev/chathub/errors"
	"github.com/chathub-dev/chathub/internal/auth/policy"
	"github.com/chathub-dev/chathub/internal/metrics"
)

// Context keys for request-scoped auth state.
const (
	identityContextKey = "chathub_identity"
	profileContextKey  = "chathub_profile"
)

// ClientIP reads the client address from x-forwarded-for (first hop), then
// x-real-ip, defaulting to the literal "unknown". The default is load-bearing:
// allow-list matching treats it as a non-matching value.
func ClientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("x-forwarded-for"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if real := c.Request().Header.Get("x-real-ip"); real != "" {
		return strings.TrimSpace(real)
	}
	return policy.UnknownIP
}

// bearerToken extracts the token from the Authorization header; empty when
// the header is missing or not a Bearer scheme. Callers must treat an absent
// token and an invalid one identically.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func jsonError(c echo.Context, apiErr *apierrors.APIError) error {
	return c.JSON(apiErr.Status, apiErr)
}

// identityFrom returns the verified identity stored by RequireAuth.
func identityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityContextKey).(*domain.Identity)
	return identity
}

// profileFrom returns the profile stored by RequireAuth.
func profileFrom(c echo.Context) *domain.UserProfile {
	profile, _ := c.Get(profileContextKey).(*domain.UserProfile)
	return profile
}

// RequireAuth is the first two gate steps: verify the bearer token (401) and
// load the profile document (404). The identity and profile land in the
// request context for downstream middleware and handlers.
func (a *API) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		identity, err := a.verifier.Verify(ctx, bearerToken(c))
		if err != nil {
			metrics.AuthFailureTotal.Inc()
			return jsonError(c, apierrors.NewUnauthenticated("missing or invalid bearer token"))
		}

		profile, err := a.userRepo.GetProfileByUID(ctx, identity.UID)
		if err != nil {
			if errors.Is(err, domain.ErrProfileNotFound) {
				return jsonError(c, apierrors.NewNotFound("user profile not found"))
			}
			log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to load user profile")
			return jsonError(c, apierrors.NewInternal())
		}

		metrics.AuthSuccessTotal.Inc()
		c.Set(identityContextKey, identity)
		c.Set(profileContextKey, profile)
		return next(c)
	}
}

// RequireApproved gates tenant-scoped operations on an approved profile.
func (a *API) RequireApproved(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile := profileFrom(c)
		if profile == nil || !profile.Approved() {
			return jsonError(c, apierrors.NewForbidden("account not approved"))
		}
		return next(c)
	}
}

// RequireAdmin is gate step three for admin-only endpoints: isAdmin plus an
// approved profile, and a satisfied second factor when one is required.
func (a *API) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile := profileFrom(c)
		if profile == nil || !profile.IsAdmin {
			return jsonError(c, apierrors.NewForbidden("admin access required"))
		}
		if !profile.Approved() {
			return jsonError(c, apierrors.NewForbidden("account not approved"))
		}
		tfa := a.policy.TwoFactorStatus(profile)
		if tfa.Required && !tfa.Verified {
			return jsonError(c, apierrors.NewForbidden("two-factor verification required"))
		}
		return next(c)
	}
}

// RequireWriter rejects read-only accounts on mutating endpoints.
func (a *API) RequireWriter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile := profileFrom(c)
		if profile == nil || profile.IsReadOnly {
			return jsonError(c, apierrors.NewForbidden("account is read-only"))
		}
		return next(c)
	}
}
