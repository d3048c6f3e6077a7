package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/chathub-dev/chathub/domain"
	apierrors "github.com/chathub-dev/chathub/errors"
)

type chatbotRequest struct {
	Name         string  `json:"name"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"systemPrompt"`
	Temperature  float64 `json:"temperature"`
	Enabled      bool    `json:"enabled"`
}

func (r *chatbotRequest) validate() *apierrors.APIError {
	if r.Name == "" {
		return apierrors.NewInvalidRequest("name is required")
	}
	if r.Model == "" {
		return apierrors.NewInvalidRequest("model is required")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return apierrors.NewInvalidRequest("temperature must be between 0 and 2")
	}
	return nil
}

// CreateChatbotHandler creates a chatbot configuration for the caller.
func (a *API) CreateChatbotHandler(c echo.Context) error {
	identity := identityFrom(c)

	var req chatbotRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}
	if apiErr := req.validate(); apiErr != nil {
		return jsonError(c, apiErr)
	}

	bot := &domain.Chatbot{
		OwnerUID:     identity.UID,
		Name:         req.Name,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		Enabled:      req.Enabled,
	}
	if err := a.chatbots.Create(c.Request().Context(), bot); err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to create chatbot")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusCreated, bot)
}

// ListChatbotsHandler lists the caller's chatbots.
func (a *API) ListChatbotsHandler(c echo.Context) error {
	identity := identityFrom(c)

	bots, err := a.chatbots.ListByOwner(c.Request().Context(), identity.UID)
	if err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to list chatbots")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, echo.Map{"chatbots": bots})
}

// GetChatbotHandler fetches one of the caller's chatbots by id.
func (a *API) GetChatbotHandler(c echo.Context) error {
	identity := identityFrom(c)

	bot, err := a.chatbots.GetByID(c.Request().Context(), identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("chatbot not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to get chatbot")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, bot)
}

// UpdateChatbotHandler replaces one of the caller's chatbot configurations.
func (a *API) UpdateChatbotHandler(c echo.Context) error {
	identity := identityFrom(c)

	var req chatbotRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}
	if apiErr := req.validate(); apiErr != nil {
		return jsonError(c, apiErr)
	}

	ctx := c.Request().Context()
	bot, err := a.chatbots.GetByID(ctx, identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("chatbot not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to load chatbot for update")
		return jsonError(c, apierrors.NewInternal())
	}

	bot.Name = req.Name
	bot.Model = req.Model
	bot.SystemPrompt = req.SystemPrompt
	bot.Temperature = req.Temperature
	bot.Enabled = req.Enabled

	if err := a.chatbots.Update(ctx, bot); err != nil {
		log.Error().Err(err).Str("id", bot.ID).Msg("Failed to update chatbot")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, bot)
}

// DeleteChatbotHandler removes one of the caller's chatbots.
func (a *API) DeleteChatbotHandler(c echo.Context) error {
	identity := identityFrom(c)

	err := a.chatbots.Delete(c.Request().Context(), identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("chatbot not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to delete chatbot")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.NoContent(http.StatusNoContent)
}
