package echodash

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/college"
)

const (
	collegesTitle = "إدارة الكليات"
	navColleges   = "colleges"
	collegesPath  = "/colleges"

	msgCollegesFailed = "لم نتمكن من جلب الكليات. حاول مرة أخرى."
	msgSaveFailed     = "تعذر حفظ الكلية. حاول مرة أخرى."
	msgDeleteFailed   = "تعذر حذف الكلية. حاول مرة أخرى."
	msgNoCollege      = "الكلية المطلوبة غير موجودة"
	msgSaved          = "تم حفظ الكلية بنجاح"
	msgDeleted        = "تم حذف الكلية بنجاح"
)

type (
	collegeHandlers struct {
		svc        *college.Service
		translator ut.Translator
	}

	// collegesData drives the list, the create/edit form and the delete confirmation.
	collegesData struct {
		Colleges    []college.College
		FormOpen    bool
		Editing     *college.College
		Form        college.Form
		FieldErrors map[string]string
		Deleting    *college.College
	}
)

func registerCollegeRoutes(g *echo.Group, deps ServerDeps) {
	h := collegeHandlers{svc: deps.CollegeSvc, translator: deps.Translator}

	cg := g.Group(collegesPath)
	cg.GET("", h.list)
	cg.GET("/new", h.newForm)
	cg.POST("", h.create)
	cg.GET("/:id/edit", h.editForm)
	cg.PUT("/:id", h.update)
	cg.GET("/:id/delete", h.confirmDelete)
	cg.DELETE("/:id", h.destroy)
}

type loadFunc func(ctx context.Context) ([]college.College, error)

// render draws the page around data from the cached collection.
func (h *collegeHandlers) render(ctx echo.Context, code int, data *collegesData, errMsg string) error {
	return h.renderWith(ctx, h.svc.Current, code, data, errMsg)
}

// renderWith loads the collection and renders the page around data.
// A failed load is reported on the page unless the session was rejected.
func (h *collegeHandlers) renderWith(ctx echo.Context, load loadFunc, code int, data *collegesData, errMsg string) error {
	colleges, err := load(ctx.Request().Context())
	if err != nil {
		if core.IsUnauthorized(err) {
			return err
		}
		p := newPage(ctx, collegesTitle, navColleges, &collegesData{})
		p.Error = core.ErrorMessage(err, msgCollegesFailed)
		return ctx.Render(statusFor(err), "colleges.html", p)
	}
	data.Colleges = colleges

	p := newPage(ctx, collegesTitle, navColleges, data)
	p.Error = errMsg
	return ctx.Render(code, "colleges.html", p)
}

// target finds the college named by the :id param.
func (h *collegeHandlers) target(ctx echo.Context) (*college.College, error) {
	c, err := h.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// bindForm reads the submitted form. A non-numeric year count binds as 0 and fails validation.
func bindForm(ctx echo.Context) college.Form {
	years, _ := strconv.Atoi(strings.TrimSpace(ctx.FormValue("academicYearsCount")))
	return college.Form{Name: ctx.FormValue("name"), AcademicYearsCount: years}
}

// list refetches on every page load. Closing a form (?closed=1) keeps the cached collection.
func (h *collegeHandlers) list(ctx echo.Context) error {
	if ctx.QueryParam("closed") != "" {
		return h.render(ctx, http.StatusOK, &collegesData{}, "")
	}
	return h.renderWith(ctx, h.svc.List, http.StatusOK, &collegesData{}, "")
}

func (h *collegeHandlers) newForm(ctx echo.Context) error {
	return h.render(ctx, http.StatusOK, &collegesData{FormOpen: true, Form: college.NewForm(nil)}, "")
}

func (h *collegeHandlers) editForm(ctx echo.Context) error {
	target, err := h.target(ctx)
	if err != nil {
		return h.targetError(ctx, err)
	}
	return h.render(ctx, http.StatusOK, &collegesData{FormOpen: true, Editing: target, Form: college.NewForm(target)}, "")
}

func (h *collegeHandlers) create(ctx echo.Context) error {
	return h.save(ctx, nil)
}

func (h *collegeHandlers) update(ctx echo.Context) error {
	target, err := h.target(ctx)
	if err != nil {
		return h.targetError(ctx, err)
	}
	return h.save(ctx, target)
}

// save keeps the form open with the entered values on any failure.
func (h *collegeHandlers) save(ctx echo.Context, target *college.College) error {
	form := bindForm(ctx)

	_, err := h.svc.Save(ctx.Request().Context(), target, form)
	if err == nil {
		if holder := getContextHolder(ctx); holder != nil {
			_ = holder.AddFlash(msgSaved)
		}
		return ctx.Redirect(http.StatusSeeOther, collegesPath)
	}
	if core.IsUnauthorized(err) {
		return err
	}

	data := &collegesData{FormOpen: true, Editing: target, Form: form}
	if data.FieldErrors = core.FieldErrors(err, h.translator); data.FieldErrors != nil {
		return h.render(ctx, http.StatusUnprocessableEntity, data, "")
	}
	return h.render(ctx, statusFor(err), data, core.ErrorMessage(err, msgSaveFailed))
}

func (h *collegeHandlers) confirmDelete(ctx echo.Context) error {
	target, err := h.target(ctx)
	if err != nil {
		return h.targetError(ctx, err)
	}
	return h.render(ctx, http.StatusOK, &collegesData{Deleting: target}, "")
}

// destroy deletes by id. The rendered list is only refreshed once the backend confirmed.
func (h *collegeHandlers) destroy(ctx echo.Context) error {
	err := h.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err == nil {
		if holder := getContextHolder(ctx); holder != nil {
			_ = holder.AddFlash(msgDeleted)
		}
		return ctx.Redirect(http.StatusSeeOther, collegesPath)
	}
	if core.IsUnauthorized(err) {
		return err
	}
	return h.render(ctx, statusFor(err), &collegesData{}, core.ErrorMessage(err, msgDeleteFailed))
}

func (h *collegeHandlers) targetError(ctx echo.Context, err error) error {
	if errors.Cause(err) == college.ErrNotFound {
		return h.render(ctx, http.StatusNotFound, &collegesData{}, msgNoCollege)
	}
	return h.render(ctx, statusFor(err), &collegesData{}, core.ErrorMessage(err, msgCollegesFailed))
}
