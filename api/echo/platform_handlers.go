package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/chathub-dev/chathub/domain"
	apierrors "github.com/chathub-dev/chathub/errors"
)

// WebVault website handlers

type websiteRequest struct {
	Domain string               `json:"domain"`
	Status domain.WebsiteStatus `json:"status"`
}

// CreateWebsiteHandler registers a new WebVault website for the caller.
func (a *API) CreateWebsiteHandler(c echo.Context) error {
	identity := identityFrom(c)

	var req websiteRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}
	if req.Domain == "" {
		return jsonError(c, apierrors.NewInvalidRequest("domain is required"))
	}

	site := &domain.Website{
		OwnerUID: identity.UID,
		Domain:   req.Domain,
		Status:   req.Status,
	}
	if err := a.websites.Create(c.Request().Context(), site); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return jsonError(c, apierrors.NewInvalidRequest("domain already registered"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to create website")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusCreated, site)
}

// ListWebsitesHandler lists the caller's websites.
func (a *API) ListWebsitesHandler(c echo.Context) error {
	identity := identityFrom(c)

	sites, err := a.websites.ListByOwner(c.Request().Context(), identity.UID)
	if err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to list websites")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, echo.Map{"websites": sites})
}

// GetWebsiteHandler fetches one of the caller's websites by id.
func (a *API) GetWebsiteHandler(c echo.Context) error {
	identity := identityFrom(c)

	site, err := a.websites.GetByID(c.Request().Context(), identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("website not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to get website")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, site)
}

// UpdateWebsiteHandler updates the mutable fields of a website.
func (a *API) UpdateWebsiteHandler(c echo.Context) error {
	identity := identityFrom(c)

	var req websiteRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}

	ctx := c.Request().Context()
	site, err := a.websites.GetByID(ctx, identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("website not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to load website for update")
		return jsonError(c, apierrors.NewInternal())
	}

	if req.Domain != "" {
		site.Domain = req.Domain
	}
	if req.Status != "" {
		site.Status = req.Status
	}

	if err := a.websites.Update(ctx, site); err != nil {
		log.Error().Err(err).Str("id", site.ID).Msg("Failed to update website")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, site)
}

// DeleteWebsiteHandler removes one of the caller's websites.
func (a *API) DeleteWebsiteHandler(c echo.Context) error {
	identity := identityFrom(c)

	err := a.websites.Delete(c.Request().Context(), identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("website not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to delete website")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListWebsiteServicesHandler lists the managed services on a website.
func (a *API) ListWebsiteServicesHandler(c echo.Context) error {
	identity := identityFrom(c)

	site, err := a.websites.GetByID(c.Request().Context(), identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("website not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to get website services")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, echo.Map{"services": site.Services})
}

type websiteServiceRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

// AddWebsiteServiceHandler attaches a managed service to a website.
func (a *API) AddWebsiteServiceHandler(c echo.Context) error {
	identity := identityFrom(c)

	var req websiteServiceRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}
	if req.Name == "" || req.Kind == "" {
		return jsonError(c, apierrors.NewInvalidRequest("name and kind are required"))
	}

	svc := domain.WebsiteService{
		Name:    req.Name,
		Kind:    req.Kind,
		Enabled: req.Enabled,
	}
	err := a.websites.AddService(c.Request().Context(), identity.UID, c.Param("id"), svc)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("website not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to add website service")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusCreated, svc)
}

// AI agent handlers

type agentRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Instructions string `json:"instructions"`
	Enabled      bool   `json:"enabled"`
}

// CreateAgentHandler creates an AI agent definition for the caller.
func (a *API) CreateAgentHandler(c echo.Context) error {
	identity := identityFrom(c)

	var req agentRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}
	if req.Name == "" {
		return jsonError(c, apierrors.NewInvalidRequest("name is required"))
	}

	agent := &domain.Agent{
		OwnerUID:     identity.UID,
		Name:         req.Name,
		Role:         req.Role,
		Instructions: req.Instructions,
		Enabled:      req.Enabled,
	}
	if err := a.agents.Create(c.Request().Context(), agent); err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to create agent")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusCreated, agent)
}

// ListAgentsHandler lists the caller's agents.
func (a *API) ListAgentsHandler(c echo.Context) error {
	identity := identityFrom(c)

	agents, err := a.agents.ListByOwner(c.Request().Context(), identity.UID)
	if err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to list agents")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, echo.Map{"agents": agents})
}

// GetAgentHandler fetches one of the caller's agents by id.
func (a *API) GetAgentHandler(c echo.Context) error {
	identity := identityFrom(c)

	agent, err := a.agents.GetByID(c.Request().Context(), identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("agent not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to get agent")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, agent)
}

// UpdateAgentHandler replaces one of the caller's agent definitions.
func (a *API) UpdateAgentHandler(c echo.Context) error {
	identity := identityFrom(c)

	var req agentRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, apierrors.NewInvalidRequest("malformed request body"))
	}
	if req.Name == "" {
		return jsonError(c, apierrors.NewInvalidRequest("name is required"))
	}

	ctx := c.Request().Context()
	agent, err := a.agents.GetByID(ctx, identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("agent not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to load agent for update")
		return jsonError(c, apierrors.NewInternal())
	}

	agent.Name = req.Name
	agent.Role = req.Role
	agent.Instructions = req.Instructions
	agent.Enabled = req.Enabled

	if err := a.agents.Update(ctx, agent); err != nil {
		log.Error().Err(err).Str("id", agent.ID).Msg("Failed to update agent")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.JSON(http.StatusOK, agent)
}

// DeleteAgentHandler removes one of the caller's agents.
func (a *API) DeleteAgentHandler(c echo.Context) error {
	identity := identityFrom(c)

	err := a.agents.Delete(c.Request().Context(), identity.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return jsonError(c, apierrors.NewNotFound("agent not found"))
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("Failed to delete agent")
		return jsonError(c, apierrors.NewInternal())
	}
	return c.NoContent(http.StatusNoContent)
}
