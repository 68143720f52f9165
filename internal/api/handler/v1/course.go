package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stunor/origo-organiser/internal/api/handler/v1/request"
	"github.com/stunor/origo-organiser/internal/api/handler/v1/response"
	"github.com/stunor/origo-organiser/internal/domain"
	"github.com/stunor/origo-organiser/internal/iof"
	"github.com/stunor/origo-organiser/internal/service"
)

const maxCourseDataBytes = 32 << 20

type CourseService interface {
	SaveCourse(ctx context.Context, raceID uuid.UUID, mapName string, data *iof.CourseData) error
	GetRaceCourses(ctx context.Context, raceID uuid.UUID) ([]domain.MapCourses, error)
}

type CourseHandler struct {
	svc CourseService
}

func NewCourseHandler(svc CourseService) *CourseHandler {
	return &CourseHandler{
		svc: svc,
	}
}

// HandleImportCourse godoc
// @Summary      Import an IOF CourseData document for a race
// @Description  Stores the map, controls and courses of the first RaceCourseData element.
// @Tags         courses
// @Accept       xml
// @Param        raceID    path      string  true  "race id"
// @Param        Map-Name  header    string  true  "name of the imported map"
// @Param        request   body      string  true  "IOF 3.0 CourseData"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /courses/{raceID} [post]
// @Security BearerAuth
func (h *CourseHandler) HandleImportCourse(ctx *gin.Context) {
	req := request.CourseImportRequest{
		RaceID:  ctx.Param("raceID"),
		MapName: ctx.GetHeader("Map-Name"),
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	raceID := uuid.MustParse(req.RaceID)

	data, err := iof.ParseCourseData(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxCourseDataBytes))
	if err != nil {
		zap.L().Warn("failed to parse course data", zap.String("race_id", req.RaceID), zap.Error(err))
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.SaveCourse(ctx.Request.Context(), raceID, req.MapName, data); err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrValidation) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleImportCourse -> h.svc.SaveCourse -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusOK)
}

// HandleGetRaceCourses godoc
// @Summary      List the imported maps and courses of a race
// @Tags         courses
// @Produce      json
// @Param        raceID  path      string  true  "race id"
// @Success      200     {array}   domain.MapCourses
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /races/{raceID}/courses [get]
// @Security BearerAuth
func (h *CourseHandler) HandleGetRaceCourses(ctx *gin.Context) {
	req := request.RaceRequest{RaceID: ctx.Param("raceID")}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	courses, err := h.svc.GetRaceCourses(ctx.Request.Context(), uuid.MustParse(req.RaceID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("race", "id", req.RaceID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRaceCourses -> h.svc.GetRaceCourses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, courses)
}
