package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aulaflow/scheduler/internal/model"
	"github.com/aulaflow/scheduler/internal/scheduling"
)

type sessionAPI struct {
	svc *scheduling.Service
}

func registerSessionAPI(g *echo.Group, svc *scheduling.Service) {
	api := &sessionAPI{svc: svc}

	sg := g.Group("/sessions")
	sg.GET("", api.list)
	sg.POST("", api.create)
	sg.GET("/teacher/:teacherID", api.teacherDay)
	sg.GET("/:id", api.get)
	sg.PUT("/:id", api.reschedule)
	sg.PATCH("/:id/cancel", api.cancel)
	sg.PATCH("/:id/finalize", api.finalize)
}

type createSessionRequest struct {
	TeacherID   int64     `json:"teacher_id" validate:"required"`
	StudentID   int64     `json:"student_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Content     string    `json:"content" validate:"required"`
}

type rescheduleSessionRequest struct {
	TeacherID   *int64     `json:"teacher_id"`
	StudentID   *int64     `json:"student_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Content     *string    `json:"content"`
}

type finalizeSessionRequest struct {
	// Required, but the booking engine owns the rule so its message wins.
	Notes string `json:"notes"`
}

func (api *sessionAPI) list(ctx echo.Context) error {
	var status *model.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		status = &st
	}

	sessions, err := api.svc.List(ctx.Request().Context(), status)
	if err != nil {
		return err
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionAPI) create(ctx echo.Context) error {
	var req createSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	sess, err := api.svc.Create(ctx.Request().Context(), scheduling.CreateInput{
		TeacherID:   req.TeacherID,
		StudentID:   req.StudentID,
		ScheduledAt: req.ScheduledAt,
		Content:     req.Content,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *sessionAPI) get(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	sess, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionAPI) reschedule(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req rescheduleSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	sess, err := api.svc.Reschedule(ctx.Request().Context(), id, scheduling.Patch{
		TeacherID:   req.TeacherID,
		StudentID:   req.StudentID,
		ScheduledAt: req.ScheduledAt,
		Content:     req.Content,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionAPI) cancel(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	sess, err := api.svc.Cancel(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionAPI) finalize(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req finalizeSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	sess, err := api.svc.Finalize(ctx.Request().Context(), id, req.Notes)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

// teacherDay returns the dual list view for a teacher: scheduled sessions on
// the reference date (today by default) and the recent history.
func (api *sessionAPI) teacherDay(ctx echo.Context) error {
	teacherID, err := strconv.ParseInt(ctx.Param("teacherID"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid teacher id")
	}

	ref := time.Now()
	if raw := ctx.QueryParam("date"); raw != "" {
		// Dates are interpreted in the server's zone, same as the rule checks.
		ref, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
	}

	day, err := api.svc.Day(ctx.Request().Context(), teacherID, ref)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, day)
}

func sessionID(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	return id, nil
}
