package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aulaflow/scheduler/internal/directory"
	"github.com/aulaflow/scheduler/internal/model"
)

type studentAPI struct {
	svc *directory.StudentService
}

func registerStudentAPI(g *echo.Group, svc *directory.StudentService) {
	api := &studentAPI{svc: svc}

	sg := g.Group("/students")
	sg.GET("", api.list)
	sg.GET("/search", api.search)
	sg.POST("", api.create)
	sg.GET("/:id", api.get)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.delete)
}

type studentRequest struct {
	CPF       string     `json:"cpf" validate:"required,len=11"`
	Name      string     `json:"name" validate:"required"`
	BirthDate *time.Time `json:"birth_date"`
	CEP       string     `json:"cep"`
	Street    string     `json:"street"`
	Number    string     `json:"number"`
	District  string     `json:"district"`
	City      string     `json:"city" validate:"required"`
	State     string     `json:"state"`
	Phone     string     `json:"phone"`
	WhatsApp  string     `json:"whatsapp" validate:"required"`
	Email     string     `json:"email" validate:"omitempty,email"`
}

// updateStudentRequest mirrors studentRequest minus the CPF, which is fixed
// at creation.
type updateStudentRequest struct {
	Name      string     `json:"name" validate:"required"`
	BirthDate *time.Time `json:"birth_date"`
	CEP       string     `json:"cep"`
	Street    string     `json:"street"`
	Number    string     `json:"number"`
	District  string     `json:"district"`
	City      string     `json:"city" validate:"required"`
	State     string     `json:"state"`
	Phone     string     `json:"phone"`
	WhatsApp  string     `json:"whatsapp" validate:"required"`
	Email     string     `json:"email" validate:"omitempty,email"`
}

func (r *studentRequest) input() directory.StudentInput {
	return directory.StudentInput{
		CPF:       r.CPF,
		Name:      r.Name,
		BirthDate: r.BirthDate,
		CEP:       r.CEP,
		Street:    r.Street,
		Number:    r.Number,
		District:  r.District,
		City:      r.City,
		State:     r.State,
		Phone:     r.Phone,
		WhatsApp:  r.WhatsApp,
		Email:     r.Email,
	}
}

func (r *updateStudentRequest) input() directory.StudentInput {
	return directory.StudentInput{
		Name:      r.Name,
		BirthDate: r.BirthDate,
		CEP:       r.CEP,
		Street:    r.Street,
		Number:    r.Number,
		District:  r.District,
		City:      r.City,
		State:     r.State,
		Phone:     r.Phone,
		WhatsApp:  r.WhatsApp,
		Email:     r.Email,
	}
}

func (api *studentAPI) list(ctx echo.Context) error {
	students, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return err
	}
	if students == nil {
		students = []*model.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentAPI) search(ctx echo.Context) error {
	term := ctx.QueryParam("q")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search term is required")
	}

	students, err := api.svc.Search(ctx.Request().Context(), term)
	if err != nil {
		return err
	}
	if students == nil {
		students = []*model.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentAPI) create(ctx echo.Context) error {
	var req studentRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	student, err := api.svc.Create(ctx.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, student)
}

func (api *studentAPI) get(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	student, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, student)
}

func (api *studentAPI) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var req updateStudentRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	student, err := api.svc.Update(ctx.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, student)
}

func (api *studentAPI) delete(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "student deleted"})
}
