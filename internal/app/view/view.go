package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"
	"github.com/ikkim/storefront-account/internal/session"
	"github.com/ikkim/storefront-account/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutName = "layout.html"

type Config struct {
	StoreName      string
	CurrencySymbol string
}

// Renderer parses the layout once per page so each page can define its own
// "content" block. It satisfies gin's render.HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer(cfg Config) (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	funcs := funcMap(cfg)
	pages := make(map[string]*template.Template, len(names))
	for _, path := range names {
		name := path[len("templates/"):]
		if name == layoutName {
			continue
		}
		tpl, err := template.New(layoutName).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutName, path)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Instance(name string, data any) ginrender.Render {
	tpl, ok := r.pages[name]
	if !ok {
		tpl = template.Must(template.New(layoutName).Parse(`template {{.}} not found`))
		data = name
	}
	return ginrender.HTML{
		Template: tpl,
		Name:     layoutName,
		Data:     data,
	}
}

// Page is the data every template receives. Content carries the page's
// own view model.
type Page struct {
	Title     string
	Nav       string
	Account   session.Identity
	Flashes   []session.Flash
	CSRFToken string
	Content   any
}

// HTML fills the session-backed fields of page, commits the session and
// renders the named template.
func HTML(c *gin.Context, status int, name string, page Page) {
	sess := session.From(c)
	page.Account = session.IdentityFrom(c)
	page.Flashes = sess.Flashes()
	page.CSRFToken = sess.CSRFToken()

	if err := session.Commit(c); err != nil {
		logger.Warn("Session not saved before render", map[string]interface{}{
			"route":    c.FullPath(),
			"template": name,
			"error":    err.Error(),
		})
	}
	c.HTML(status, name, page)
}

// OK renders with 200.
func OK(c *gin.Context, name string, page Page) {
	HTML(c, http.StatusOK, name, page)
}
