package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stunor/origo-organiser/internal/api/handler/v1/request"
	"github.com/stunor/origo-organiser/internal/api/handler/v1/response"
	"github.com/stunor/origo-organiser/internal/eventor"
	"github.com/stunor/origo-organiser/internal/service"
)

type EntryService interface {
	DownloadEntryList(ctx context.Context, eventID uuid.UUID) (service.ImportResult, error)
}

type EntryHandler struct {
	svc EntryService
}

func NewEntryHandler(svc EntryService) *EntryHandler {
	return &EntryHandler{
		svc: svc,
	}
}

// HandleDownloadEntries godoc
// @Summary      Sync the entry list of an event from its federation server
// @Tags         entries
// @Produce      json
// @Param        eventID  path      string  true  "event id"
// @Success      200      {object}  response.EntryDownloadResponse
// @Failure      400      {object}  response.Err
// @Failure      502      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /entries/{eventID} [post]
// @Security BearerAuth
func (h *EntryHandler) HandleDownloadEntries(ctx *gin.Context) {
	req := request.EventRequest{EventID: ctx.Param("eventID")}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	eventID := uuid.MustParse(req.EventID)

	result, err := h.svc.DownloadEntryList(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if errors.Is(err, eventor.ErrUnexpectedStatus) || errors.Is(err, eventor.ErrUnavailable) ||
			errors.Is(err, eventor.ErrInvalidResponse) {
			response.RenderErr(ctx, response.ErrBadGateway(err))
			return
		}

		err = fmt.Errorf("v1.HandleDownloadEntries -> h.svc.DownloadEntryList -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEntryDownloadResponse(eventID, result))
}
