package echo

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chathub-dev/chathub/domain"
	"github.com/chathub-dev/chathub/internal/auth/policy"
)

func TestCreateChatbotHandler(t *testing.T) {
	t.Run("Creates Chatbot", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		env.chatbots.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Chatbot) bool {
			return b.OwnerUID == "u1" && b.Name == "support" && b.Model == "gpt-4o" && b.Temperature == 0.7
		})).Return(nil).Once()

		rec := doRequest(env.e, http.MethodPost, "/api/chatbots", "t1",
			`{"name":"support","model":"gpt-4o","temperature":0.7,"enabled":true}`, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env.chatbots.AssertExpectations(t)
	})

	t.Run("Missing Name", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))

		rec := doRequest(env.e, http.MethodPost, "/api/chatbots", "t1",
			`{"model":"gpt-4o"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.chatbots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Temperature Out Of Range", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))

		rec := doRequest(env.e, http.MethodPost, "/api/chatbots", "t1",
			`{"name":"support","model":"gpt-4o","temperature":2.5}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetChatbotHandler(t *testing.T) {
	t.Run("Owner Fetches Own Bot", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		bot := &domain.Chatbot{ID: "b1", OwnerUID: "u1", Name: "support", Model: "gpt-4o"}
		env.chatbots.On("GetByID", mock.Anything, "u1", "b1").Return(bot, nil).Once()

		rec := doRequest(env.e, http.MethodGet, "/api/chatbots/b1", "t1", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "support", body["name"])
	})

	t.Run("Foreign Bot Behaves As Missing", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		env.chatbots.On("GetByID", mock.Anything, "u1", "b2").Return(nil, domain.ErrNotFound).Once()

		rec := doRequest(env.e, http.MethodGet, "/api/chatbots/b2", "t1", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateChatbotHandler(t *testing.T) {
	env := newTestEnv(policy.Config{})
	env.addUser("t1", approvedUser("u1"))
	bot := &domain.Chatbot{ID: "b1", OwnerUID: "u1", Name: "support", Model: "gpt-4o"}
	env.chatbots.On("GetByID", mock.Anything, "u1", "b1").Return(bot, nil).Once()
	env.chatbots.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Chatbot) bool {
		return b.ID == "b1" && b.Name == "sales" && b.Model == "gpt-4o-mini"
	})).Return(nil).Once()

	rec := doRequest(env.e, http.MethodPut, "/api/chatbots/b1", "t1",
		`{"name":"sales","model":"gpt-4o-mini","temperature":1.0}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env.chatbots.AssertExpectations(t)
}

func TestDeleteChatbotHandler(t *testing.T) {
	t.Run("Deletes Own Bot", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		env.chatbots.On("Delete", mock.Anything, "u1", "b1").Return(nil).Once()

		rec := doRequest(env.e, http.MethodDelete, "/api/chatbots/b1", "t1", "", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		env.chatbots.AssertExpectations(t)
	})

	t.Run("Missing Bot", func(t *testing.T) {
		env := newTestEnv(policy.Config{})
		env.addUser("t1", approvedUser("u1"))
		env.chatbots.On("Delete", mock.Anything, "u1", "b2").Return(domain.ErrNotFound).Once()

		rec := doRequest(env.e, http.MethodDelete, "/api/chatbots/b2", "t1", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
