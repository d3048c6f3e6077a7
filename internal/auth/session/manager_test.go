package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chathub-dev/chathub/domain"
)

// --- Mock Implementations ---

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) TouchSession(ctx context.Context, id string, lastActivity, expiresAt time.Time) error {
	args := m.Called(ctx, id, lastActivity, expiresAt)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) ListSessionsByUserID(ctx context.Context, userID string) ([]*domain.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

const testMaxSessions = 5

func newTestManager(repo domain.SessionRepository) *Manager {
	return NewManager(repo, 30*time.Minute, testMaxSessions)
}

// --- Manager Tests ---

func TestManager_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Session Below Cap", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		mockRepo.On("CountActiveByUser", ctx, "u1").Return(int64(0), nil).Once()
		mockRepo.On("StoreSession", ctx, mock.MatchedBy(func(s *domain.Session) bool {
			return s.UserID == "u1" && s.IPAddress == "1.2.3.4" && s.ID != "" && s.ExpiresAt.After(s.CreatedAt)
		})).Return(nil).Once()

		session, err := m.CreateSession(ctx, "u1", "1.2.3.4", "test-agent")
		require.NoError(t, err)
		assert.Contains(t, session.ID, "u1_")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rejects At Cap", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		mockRepo.On("CountActiveByUser", ctx, "u1").Return(int64(testMaxSessions), nil).Once()

		_, err := m.CreateSession(ctx, "u1", "1.2.3.4", "test-agent")
		assert.ErrorIs(t, err, domain.ErrTooManySessions)
		mockRepo.AssertNotCalled(t, "StoreSession", mock.Anything, mock.Anything)
	})

	t.Run("Distinct IDs Within One Clock Tick", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		mockRepo.On("CountActiveByUser", ctx, "u1").Return(int64(0), nil)
		mockRepo.On("StoreSession", ctx, mock.Anything).Return(nil)

		// Back-to-back creates land in the same millisecond often enough
		// that uniqueness must not depend on the wall clock alone.
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			session, err := m.CreateSession(ctx, "u1", "1.2.3.4", "test-agent")
			require.NoError(t, err)
			assert.False(t, seen[session.ID], "duplicate session id %s", session.ID)
			seen[session.ID] = true
		}
	})
}

func TestManager_ValidateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid Session Touched", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		stored := &domain.Session{
			ID:        "u1_1_abc",
			UserID:    "u1",
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		mockRepo.On("GetSessionByID", ctx, "u1_1_abc").Return(stored, nil).Once()
		mockRepo.On("TouchSession", ctx, "u1_1_abc", mock.Anything, mock.Anything).Return(nil).Once()

		session, err := m.ValidateSession(ctx, "u1", "u1_1_abc")
		require.NoError(t, err)
		assert.Equal(t, "u1", session.UserID)
		assert.True(t, session.ExpiresAt.After(time.Now().Add(29*time.Minute)), "expiry window should slide forward")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		mockRepo.On("GetSessionByID", ctx, "missing").Return(nil, domain.ErrSessionNotFound).Once()

		_, err := m.ValidateSession(ctx, "u1", "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Foreign Session Behaves As Missing", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		stored := &domain.Session{
			ID:        "u2_1_abc",
			UserID:    "u2",
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		mockRepo.On("GetSessionByID", ctx, "u2_1_abc").Return(stored, nil).Once()

		// Another user's live session must read as missing and its expiry
		// window must not slide.
		_, err := m.ValidateSession(ctx, "u1", "u2_1_abc")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		mockRepo.AssertNotCalled(t, "TouchSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Expired", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		stored := &domain.Session{
			ID:        "u1_1_abc",
			UserID:    "u1",
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		mockRepo.On("GetSessionByID", ctx, "u1_1_abc").Return(stored, nil).Once()

		_, err := m.ValidateSession(ctx, "u1", "u1_1_abc")
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
		mockRepo.AssertNotCalled(t, "TouchSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Revoked Reads As Expired", func(t *testing.T) {
		mockRepo := new(MockSessionRepository)
		m := newTestManager(mockRepo)

		stored := &domain.Session{
			ID:        "u1_1_abc",
			UserID:    "u1",
			ExpiresAt: time.Now().Add(10 * time.Minute),
			Revoked:   true,
		}
		mockRepo.On("GetSessionByID", ctx, "u1_1_abc").Return(stored, nil).Once()

		_, err := m.ValidateSession(ctx, "u1", "u1_1_abc")
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})
}

func TestManager_CheckConcurrentSessions(t *testing.T) {
	ctx := context.Background()

	// The cap check must flip exactly at the configured maximum.
	cases := []struct {
		name  string
		count int64
		want  bool
	}{
		{"Below Cap", testMaxSessions - 1, true},
		{"At Cap", testMaxSessions, false},
		{"Above Cap", testMaxSessions + 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockSessionRepository)
			m := newTestManager(mockRepo)

			mockRepo.On("CountActiveByUser", ctx, "u1").Return(tc.count, nil).Once()

			ok, err := m.CheckConcurrentSessions(ctx, "u1", "u1_1_abc")
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestManager_RevokeSession(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockSessionRepository)
	m := newTestManager(mockRepo)

	mockRepo.On("RevokeSession", ctx, "u1_1_abc").Return(nil).Once()

	err := m.RevokeSession(ctx, "u1_1_abc")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
