package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aulaflow/scheduler/internal/directory"
	"github.com/aulaflow/scheduler/internal/model"
)

type teacherAPI struct {
	svc *directory.TeacherService
}

func registerTeacherAPI(g *echo.Group, svc *directory.TeacherService) {
	api := &teacherAPI{svc: svc}

	tg := g.Group("/teachers")
	tg.GET("", api.list)
	tg.GET("/active", api.listActive)
	tg.GET("/search", api.search)
	tg.POST("", api.create)
	tg.GET("/:id", api.get)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.delete)
}

type createTeacherRequest struct {
	CPF       string     `json:"cpf" validate:"required,len=11"`
	Name      string     `json:"name" validate:"required"`
	BirthDate *time.Time `json:"birth_date"`
	Specialty string     `json:"specialty"`
	Active    *bool      `json:"active"`
}

type updateTeacherRequest struct {
	Name      string     `json:"name" validate:"required"`
	BirthDate *time.Time `json:"birth_date"`
	Specialty string     `json:"specialty"`
	Active    *bool      `json:"active"`
}

func (api *teacherAPI) list(ctx echo.Context) error {
	teachers, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return err
	}
	if teachers == nil {
		teachers = []*model.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherAPI) listActive(ctx echo.Context) error {
	teachers, err := api.svc.ListActive(ctx.Request().Context())
	if err != nil {
		return err
	}
	if teachers == nil {
		teachers = []*model.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherAPI) search(ctx echo.Context) error {
	term := ctx.QueryParam("q")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search term is required")
	}

	teachers, err := api.svc.Search(ctx.Request().Context(), term)
	if err != nil {
		return err
	}
	if teachers == nil {
		teachers = []*model.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherAPI) create(ctx echo.Context) error {
	var req createTeacherRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	teacher, err := api.svc.Create(ctx.Request().Context(), directory.TeacherInput{
		CPF:       req.CPF,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Specialty: req.Specialty,
		Active:    req.Active,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, teacher)
}

func (api *teacherAPI) get(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	teacher, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *teacherAPI) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var req updateTeacherRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	teacher, err := api.svc.Update(ctx.Request().Context(), id, directory.TeacherInput{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Specialty: req.Specialty,
		Active:    req.Active,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *teacherAPI) delete(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "teacher deleted"})
}

func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
