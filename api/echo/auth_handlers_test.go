package echo

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chathub-dev/chathub/domain"
	"github.com/chathub-dev/chathub/internal/auth/policy"
)

func TestValidateHandler(t *testing.T) {
	t.Run("All Checks Pass", func(t *testing.T) {
		env := newTestEnv(policy.Config{RequireEmailVerification: true})
		env.addUser("t1", approvedUser("u1"))

		rec := doRequest(env.e, http.MethodGet, "/api/auth/validate", "t1", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["valid"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "u1", user["uid"])
		assert.Equal(t, "u1@example.com", user["email"])
	})

	t.Run("Unverified Email Fails Validation", func(t *testing.T) {
		env := newTestEnv(policy.Config{RequireEmailVerification: true})
		profile := approvedUser("u1")
		profile.EmailVerified = false
		env.addUser("t1", profile)

		rec := doRequest(env.e, http.MethodGet, "/api/auth/validate", "t1", "", nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "validation_failed", body["error"])
		assert.Contains(t, body["details"], "email address not verified")
	})

	t.Run("Unverified Phone Surfaces As Warning Only", func(t *testing.T) {
		env := newTestEnv(policy.Config{RequireEmailVerification: true})
		profile := approvedUser("u1")
		profile.PhoneVerified = false
		env.addUser("t1", profile)

		rec := doRequest(env.e, http.MethodGet, "/api/auth/validate", "t1", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["valid"])
		security := body["security"].(map[string]any)
		assert.Contains(t, security["warnings"], "phone number not verified")
	})

	t.Run("IP Outside Allow-List Fails Validation", func(t *testing.T) {
		env := newTestEnv(policy.Config{AllowedIPs: []string{"1.2.3.4"}})
		env.addUser("t1", approvedUser("u1"))

		rec := doRequest(env.e, http.MethodGet, "/api/auth/validate", "t1", "",
			map[string]string{"x-forwarded-for": "9.9.9.9"})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "validation_failed", decodeBody(t, rec)["error"])
	})
}

func TestCreateSessionHandler(t *testing.T) {
	t.Run("Creates Session", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		env.sessions.On("CountActiveByUser", mock.Anything, "u1").Return(int64(0), nil).Once()
		env.sessions.On("StoreSession", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
			return s.UserID == "u1" && s.IPAddress == "1.2.3.4"
		})).Return(nil).Once()

		rec := doRequest(env.e, http.MethodPost, "/api/auth/session", "t1", "",
			map[string]string{"x-forwarded-for": "1.2.3.4"})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Contains(t, body["sessionId"], "u1_")
		assert.NotEmpty(t, body["expiresAt"])
		env.sessions.AssertExpectations(t)
	})

	t.Run("Cap Reached Returns 429", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		env.sessions.On("CountActiveByUser", mock.Anything, "u1").Return(int64(testMaxSessions), nil).Once()

		rec := doRequest(env.e, http.MethodPost, "/api/auth/session", "t1", "", nil)

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "policy_violation", decodeBody(t, rec)["error"])
		env.sessions.AssertNotCalled(t, "StoreSession", mock.Anything, mock.Anything)
	})
}

func TestGetSessionHandler(t *testing.T) {
	liveSession := func(uid string) *domain.Session {
		return &domain.Session{
			ID:        uid + "_1_abcd1234",
			UserID:    uid,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
	}

	t.Run("Missing Header", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))

		rec := doRequest(env.e, http.MethodGet, "/api/auth/session", "t1", "", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_request", decodeBody(t, rec)["error"])
	})

	t.Run("Valid Session", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		s := liveSession("u1")
		env.sessions.On("GetSessionByID", mock.Anything, s.ID).Return(s, nil).Once()
		env.sessions.On("TouchSession", mock.Anything, s.ID, mock.Anything, mock.Anything).Return(nil).Once()
		env.sessions.On("CountActiveByUser", mock.Anything, "u1").Return(int64(1), nil).Once()

		rec := doRequest(env.e, http.MethodGet, "/api/auth/session", "t1", "",
			map[string]string{sessionIDHeader: s.ID})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["valid"])
		env.sessions.AssertExpectations(t)
	})

	t.Run("Expired Session", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		s := liveSession("u1")
		s.ExpiresAt = time.Now().Add(-time.Minute)
		env.sessions.On("GetSessionByID", mock.Anything, s.ID).Return(s, nil).Once()

		rec := doRequest(env.e, http.MethodGet, "/api/auth/session", "t1", "",
			map[string]string{sessionIDHeader: s.ID})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "unauthenticated", body["error"])
		assert.Equal(t, []any{"session_expired"}, body["details"])
	})

	t.Run("Unknown Session", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		env.sessions.On("GetSessionByID", mock.Anything, "missing").Return(nil, domain.ErrSessionNotFound).Once()

		rec := doRequest(env.e, http.MethodGet, "/api/auth/session", "t1", "",
			map[string]string{sessionIDHeader: "missing"})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, []any{"session_not_found"}, decodeBody(t, rec)["details"])
	})

	t.Run("Foreign Session Behaves As Missing", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		s := liveSession("u2")
		env.sessions.On("GetSessionByID", mock.Anything, s.ID).Return(s, nil).Once()

		rec := doRequest(env.e, http.MethodGet, "/api/auth/session", "t1", "",
			map[string]string{sessionIDHeader: s.ID})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, []any{"session_not_found"}, decodeBody(t, rec)["details"])
		env.sessions.AssertNotCalled(t, "TouchSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Over Concurrency Cap", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		s := liveSession("u1")
		env.sessions.On("GetSessionByID", mock.Anything, s.ID).Return(s, nil).Once()
		env.sessions.On("TouchSession", mock.Anything, s.ID, mock.Anything, mock.Anything).Return(nil).Once()
		env.sessions.On("CountActiveByUser", mock.Anything, "u1").Return(int64(testMaxSessions), nil).Once()

		rec := doRequest(env.e, http.MethodGet, "/api/auth/session", "t1", "",
			map[string]string{sessionIDHeader: s.ID})

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "policy_violation", decodeBody(t, rec)["error"])
	})
}

func TestDeleteSessionHandler(t *testing.T) {
	t.Run("Revokes Own Session", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		s := &domain.Session{ID: "u1_1_abcd1234", UserID: "u1", ExpiresAt: time.Now().Add(10 * time.Minute)}
		env.sessions.On("GetSessionByID", mock.Anything, s.ID).Return(s, nil).Once()
		env.sessions.On("TouchSession", mock.Anything, s.ID, mock.Anything, mock.Anything).Return(nil).Once()
		env.sessions.On("RevokeSession", mock.Anything, s.ID).Return(nil).Once()

		rec := doRequest(env.e, http.MethodDelete, "/api/auth/session", "t1", "",
			map[string]string{sessionIDHeader: s.ID})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		env.sessions.AssertExpectations(t)
	})

	t.Run("Foreign Session Behaves As Missing", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		s := &domain.Session{ID: "u2_1_abcd1234", UserID: "u2", ExpiresAt: time.Now().Add(10 * time.Minute)}
		env.sessions.On("GetSessionByID", mock.Anything, s.ID).Return(s, nil).Once()

		rec := doRequest(env.e, http.MethodDelete, "/api/auth/session", "t1", "",
			map[string]string{sessionIDHeader: s.ID})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env.sessions.AssertNotCalled(t, "TouchSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		env.sessions.AssertNotCalled(t, "RevokeSession", mock.Anything, mock.Anything)
	})
}

func TestTwoFAStatusHandler(t *testing.T) {
	env := newTestEnv(policy.Config{})
	profile := approvedUser("u1")
	profile.TwoFactorEnabled = true
	profile.TwoFactorVerified = true
	env.addUser("t1", profile)

	rec := doRequest(env.e, http.MethodGet, "/api/auth/2fa-status", "t1", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["enabled"])
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, true, body["required"])
	assert.Equal(t, "u1@example.com", body["email"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestIPValidationHandler(t *testing.T) {
	t.Run("Listed IP Allowed", func(t *testing.T) {
		env := newTestEnv(policy.Config{AllowedIPs: []string{"1.2.3.4"}})

		rec := doRequest(env.e, http.MethodGet, "/api/auth/ip-validation", "", "",
			map[string]string{"x-forwarded-for": "1.2.3.4"})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "1.2.3.4", body["ip"])
		assert.Equal(t, true, body["allowed"])
	})

	t.Run("Unlisted IP Rejected", func(t *testing.T) {
		env := newTestEnv(policy.Config{AllowedIPs: []string{"1.2.3.4"}})

		rec := doRequest(env.e, http.MethodGet, "/api/auth/ip-validation", "", "",
			map[string]string{"x-forwarded-for": "9.9.9.9"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["allowed"])
	})

	t.Run("Missing Headers Report Unknown", func(t *testing.T) {
		env := newTestEnv(policy.Config{AllowedIPs: []string{"1.2.3.4"}})

		rec := doRequest(env.e, http.MethodGet, "/api/auth/ip-validation", "", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, policy.UnknownIP, body["ip"])
		assert.Equal(t, false, body["allowed"])
	})

	t.Run("Empty Allow-List Admits Everything", func(t *testing.T) {
		env := newTestEnv(policy.Config{})

		rec := doRequest(env.e, http.MethodGet, "/api/auth/ip-validation", "", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["allowed"])
	})
}
