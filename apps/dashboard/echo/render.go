package echodash

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core/application"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login.html", "applications.html", "colleges.html", "error.html"}

type (
	renderer struct {
		appName string
		pages   map[string]*template.Template
	}

	// page is the data every template receives.
	page struct {
		AppTitle string
		Title    string
		Nav      string
		CSRF     string
		Person   string
		Flashes  []string
		Error    string
		Data     interface{}
	}

	errorData struct {
		Code    int
		Message string
	}
)

var templateFuncs = template.FuncMap{
	"badge":      func(s application.Status) (application.Badge, error) { return s.Badge() },
	"fieldLabel": application.FieldLabel,
	"date":       application.FormatDate,
	"inc":        func(i int) int { return i + 1 },
}

func newRenderer(appName string) (*renderer, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing layout")
	}

	r := &renderer{appName: appName, pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, errors.Wrap(err, "cloning layout")
		}
		if r.pages[name], err = t.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	if p, ok := data.(page); ok {
		p.AppTitle = r.appName
		data = p
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// newPage collects the per-request layout data. Pending flashes are consumed.
func newPage(ctx echo.Context, title, nav string, data interface{}) page {
	p := page{
		Title:  title,
		Nav:    nav,
		CSRF:   csrfToken(ctx),
		Person: contextPerson(ctx).Email,
		Data:   data,
	}
	if h := getContextHolder(ctx); h != nil {
		p.Flashes = h.Flashes()
	}
	return p
}
