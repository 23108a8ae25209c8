package api

import (
	"embed"
	"encoding/gob"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"qbank/app"
	"qbank/feedback"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionName = "qbank-session"

func init() {
	gob.Register(feedback.Toast{})
}

// Server renders the moderation dashboard and the generation form
type Server struct {
	app       *app.App
	store     sessions.Store
	templates map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"join":  strings.Join,
	"add":   func(a, b int) int { return a + b },
}

var pages = []string{"dashboard", "bucket", "report", "generate"}

func newServer(a *app.App, store sessions.Store) *Server {
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		templates[name] = template.Must(template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/base.html", "templates/"+name+".html"))
	}
	return &Server{app: a, store: store, templates: templates}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(a *app.App, store sessions.Store) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s := newServer(a, store)
	RegisterHealthRoutes(r, a)
	RegisterDashboardRoutes(r, s)
	RegisterReportRoutes(r, s)
	RegisterGenerateRoutes(r, s)
	RegisterMetadataRoutes(r, a)
	return r
}

// render executes a page inside base.html. Pending flash messages are consumed.
func (s *Server) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Page"] = page
	data["Toasts"] = s.popFlashes(c)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := s.templates[page].ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		log.Printf("❌ Template error in %s: %v", page, err)
	}
}

// flash queues a toast for the next rendered page
func (s *Server) flash(c *gin.Context, level feedback.Level, message string) {
	session, _ := s.store.Get(c.Request, sessionName)
	session.AddFlash(feedback.Toast{Level: level, Message: message})
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("⚠️ session save failed: %v", err)
	}
}

// redirect queues a toast and sends the browser to location
func (s *Server) redirect(c *gin.Context, location string, level feedback.Level, message string) {
	s.flash(c, level, message)
	c.Redirect(http.StatusSeeOther, location)
}

func (s *Server) popFlashes(c *gin.Context) []feedback.Toast {
	session, err := s.store.Get(c.Request, sessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("⚠️ session save failed: %v", err)
	}
	toasts := make([]feedback.Toast, 0, len(raw))
	for _, v := range raw {
		if t, ok := v.(feedback.Toast); ok {
			toasts = append(toasts, t)
		}
	}
	return toasts
}
