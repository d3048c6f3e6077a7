package echo

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/chathub-dev/chathub/domain"
	apierrors "github.com/chathub-dev/chathub/errors"
	"github.com/chathub-dev/chathub/internal/audit"
)

var processStart = time.Now()

// ListUsersHandler returns a page of user profiles for the admin dashboard.
func (a *API) ListUsersHandler(c echo.Context) error {
	pageSize := 0
	if raw := c.QueryParam("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return jsonError(c, apierrors.NewInvalidRequest("pageSize must be an integer"))
		}
		pageSize = parsed
	}

	profiles, nextPageToken, err := a.userRepo.ListProfiles(c.Request().Context(), c.QueryParam("pageToken"), pageSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list user profiles")
		return jsonError(c, apierrors.NewInternal())
	}

	users := make([]userView, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, newUserView(p))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":         users,
		"nextPageToken": nextPageToken,
	})
}

type approvalRequest struct {
	Status domain.ApprovalStatus `json:"status"`
}

// SetApprovalHandler approves or rejects a pending account.
func (a *API) SetApprovalHandler(c echo.Context) error {
	identity := identityFrom(c)
	uid := c.Param("uid")

	var req approvalRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}
	if req.Status != domain.ApprovalStatusApproved && req.Status != domain.ApprovalStatusRejected {
		return jsonError(c, apierrors.NewInvalidRequest("status must be approved or rejected"))
	}

	ctx := c.Request().Context()
	if err := a.userRepo.SetApprovalStatus(ctx, uid, req.Status); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return jsonError(c, apierrors.NewNotFound("user profile not found"))
		}
		log.Error().Err(err).Str("uid", uid).Msg("Failed to set approval status")
		return jsonError(c, apierrors.NewInternal())
	}

	audit.Log("AdminAPI", "SetApproval", identity.UID, uid, "Approval status set to "+string(req.Status), true, nil)
	return c.JSON(http.StatusOK, echo.Map{
		"uid":    uid,
		"status": req.Status,
	})
}

// ListUserSessionsHandler lists a user's sessions for admin inspection.
func (a *API) ListUserSessionsHandler(c echo.Context) error {
	uid := c.Param("uid")

	sessions, err := a.sessions.ListSessions(c.Request().Context(), uid)
	if err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("Failed to list user sessions")
		return jsonError(c, apierrors.NewInternal())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"uid":      uid,
		"sessions": sessions,
	})
}

// MetricsSnapshotHandler returns a point-in-time system metrics snapshot for
// the admin dashboard. Prometheus owns the time-series view; this is the
// human-readable complement.
func (a *API) MetricsSnapshotHandler(c echo.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(http.StatusOK, echo.Map{
		"goroutines":    runtime.NumGoroutine(),
		"heapAllocMB":   mem.HeapAlloc / 1024 / 1024,
		"heapSysMB":     mem.HeapSys / 1024 / 1024,
		"numGC":         mem.NumGC,
		"uptimeSeconds": int64(time.Since(processStart).Seconds()),
		"timestamp":     time.Now().UTC(),
	})
}
