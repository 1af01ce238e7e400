package controllers

import (
	"log/slog"
	"net/http"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// ChatRequest is the request body for POST /assistant/chat. Length limits are enforced by the service.
type ChatRequest struct {
	Message string `json:"message"`
}

type AssistantController struct {
	Logger  *slog.Logger
	Service domain.AssistantService
}

func NewAssistantController(logger *slog.Logger, svc domain.AssistantService) *AssistantController {
	return &AssistantController{Logger: logger, Service: svc}
}

// Chat godoc
// @Summary Ask the assistant
// @Description Answers questions about events and the caller's own data. Guests only see public events. When the model is unavailable a fallback reply is returned with fallback=true.
// @Tags assistant
// @Accept json
// @Produce json
// @Param body body ChatRequest true "Question"
// @Success 200 {object} helpers.APIResponse "data contains reply, intent and fallback"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assistant/chat [post]
func (c *AssistantController) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reply, err := c.Service.Chat(r.Context(), domain.ActorFromContext(r.Context()), req.Message)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reply)
}
