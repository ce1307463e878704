package echodash

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/application"
)

const (
	applicationsTitle = "طلبات الانضمام للفريق الإعلامي"
	navApplications   = "applications"

	msgApplicationsFailed = "لم نتمكن من جلب البيانات. حاول مرة أخرى."
	msgNoApplication      = "الطلب المطلوب غير موجود"
)

type (
	applicationHandlers struct {
		svc *application.Service
	}

	applicationsData struct {
		Applications []application.Application
		Selected     *application.Application
	}
)

func registerApplicationRoutes(g *echo.Group, deps ServerDeps) {
	h := applicationHandlers{svc: deps.AppSvc}
	g.GET("/", h.list)
}

// list renders every application. ?selected=<id> opens its detail overlay.
// Opening or closing the overlay reuses the cached applications, any other load refetches.
func (h *applicationHandlers) list(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	load := h.svc.List
	if ctx.QueryParam("selected") != "" || ctx.QueryParam("closed") != "" {
		load = h.svc.Current
	}
	apps, err := load(reqCtx)
	if err != nil {
		if core.IsUnauthorized(err) {
			return err
		}
		p := newPage(ctx, applicationsTitle, navApplications, applicationsData{})
		p.Error = core.ErrorMessage(err, msgApplicationsFailed)
		return ctx.Render(statusFor(err), "applications.html", p)
	}

	data := applicationsData{Applications: apps}
	p := newPage(ctx, applicationsTitle, navApplications, &data)
	if id := ctx.QueryParam("selected"); id != "" {
		app, err := h.svc.Select(reqCtx, id)
		if err != nil {
			p.Error = msgNoApplication
			return ctx.Render(http.StatusNotFound, "applications.html", p)
		}
		data.Selected = &app
	}
	return ctx.Render(http.StatusOK, "applications.html", p)
}
