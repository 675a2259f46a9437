package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"wellness-tracker/internal/app"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server exposes the tracker over HTTP: an HTML page and a JSON API.
type Server struct {
	app    *app.App
	engine *gin.Engine
	logger *zap.Logger
}

// New builds the router. When apiSecret is set, /api requires a Bearer token
// and the HTML page requires the same token as a header or session cookie.
func New(a *app.App, apiSecret string) *Server {
	s := &Server{app: a, engine: gin.New(), logger: a.Logger()}

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"qty":     humanize.Ftoa,
		"ago":     humanize.Time,
		"isTab":   func(active, tab string) bool { return active == tab },
		"joinRef": joinRefs,
	}).ParseFS(templatesFS, "templates/*.html"))
	s.engine.SetHTMLTemplate(tmpl)

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.engine.GET("/health", s.health)

	web := s.engine.Group("/")
	web.Use(PageAuthMiddleware(apiSecret))
	{
		web.GET("/", s.index)
		web.POST("/days/:id/note", s.submitNote)
		web.POST("/days/:id/coach", s.submitCoach)
	}

	api := s.engine.Group("/api")
	api.Use(AuthMiddleware(apiSecret))
	{
		api.GET("/plan", s.getPlan)
		api.GET("/days", s.listDays)
		api.GET("/days/:id", s.getDay)
		api.PUT("/days/:id/note", s.putNote)
		api.POST("/days/:id/coach", s.postCoach)
		api.GET("/groceries", s.getGroceries)
		api.GET("/groceries/latest", s.getLatestGroceries)
		api.GET("/metrics/coach", s.getCoachUsage)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Mount routes POST requests for path to h, e.g. a chat webhook.
func (s *Server) Mount(path string, h http.Handler) {
	s.engine.POST(path, gin.WrapH(h))
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"system": s.systemHealth(),
	})
}
