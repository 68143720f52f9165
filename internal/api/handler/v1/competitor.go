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
	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/service"
)

type CompetitorService interface {
	GetPersonEntry(ctx context.Context, id uuid.UUID) (domain.PersonEntry, error)
	GetCompetitors(ctx context.Context, raceID uuid.UUID) (service.RaceCompetitors, error)
	DeleteCompetitors(ctx context.Context, raceID uuid.UUID) (int64, error)
}

type CompetitorHandler struct {
	svc CompetitorService
}

func NewCompetitorHandler(svc CompetitorService) *CompetitorHandler {
	return &CompetitorHandler{
		svc: svc,
	}
}

// HandleGetCompetitors godoc
// @Summary      List the person and team entries of a race
// @Tags         competitors
// @Produce      json
// @Param        raceID  path      string  true  "race id"
// @Success      200     {object}  service.RaceCompetitors
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /races/{raceID}/competitors [get]
// @Security BearerAuth
func (h *CompetitorHandler) HandleGetCompetitors(ctx *gin.Context) {
	req := request.RaceRequest{RaceID: ctx.Param("raceID")}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	competitors, err := h.svc.GetCompetitors(ctx.Request.Context(), uuid.MustParse(req.RaceID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("race", "id", req.RaceID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCompetitors -> h.svc.GetCompetitors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, competitors)
}

// HandleGetCompetitor godoc
// @Summary      Get one person entry
// @Tags         competitors
// @Produce      json
// @Param        competitorID  path      string  true  "person entry id"
// @Success      200           {object}  domain.PersonEntry
// @Failure      400           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /competitors/{competitorID} [get]
// @Security BearerAuth
func (h *CompetitorHandler) HandleGetCompetitor(ctx *gin.Context) {
	req := request.CompetitorRequest{CompetitorID: ctx.Param("competitorID")}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, err := h.svc.GetPersonEntry(ctx.Request.Context(), uuid.MustParse(req.CompetitorID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("competitor", "id", req.CompetitorID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCompetitor -> h.svc.GetPersonEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entry)
}

// HandleDeleteCompetitors godoc
// @Summary      Delete every entry of a race
// @Tags         competitors
// @Produce      json
// @Param        raceID  path      string  true  "race id"
// @Success      200     {object}  response.DeleteCompetitorsResponse
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /races/{raceID}/competitors [delete]
// @Security BearerAuth
func (h *CompetitorHandler) HandleDeleteCompetitors(ctx *gin.Context) {
	req := request.RaceRequest{RaceID: ctx.Param("raceID")}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	raceID := uuid.MustParse(req.RaceID)

	deleted, err := h.svc.DeleteCompetitors(ctx.Request.Context(), raceID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("race", "id", req.RaceID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteCompetitors -> h.svc.DeleteCompetitors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.DeleteCompetitorsResponse{RaceID: raceID, Deleted: deleted})
}
