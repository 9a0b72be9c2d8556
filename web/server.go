package web

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"laptop-price/services"
	"laptop-price/utils"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Server wires the catalog and predictor to HTTP routes. Both are
// read-only after startup and shared by every request.
type Server struct {
	catalog   *services.CatalogService
	predictor *services.Predictor
	logger    *utils.Logger
	router    *gin.Engine
	upgrader  websocket.Upgrader
}

// NewServer builds the gin engine with every page, API and websocket route.
func NewServer(catalog *services.CatalogService, predictor *services.Predictor,
	logger *utils.Logger, corsOrigins []string) *Server {

	s := &Server{
		catalog:   catalog,
		predictor: predictor,
		logger:    logger.With("http"),
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin(corsOrigins)},
	}

	router := gin.New()
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    s.logger,
		SkipPaths: []string{"/api/v1/health"},
	}))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.tmpl"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.Dashboard)
	router.GET("/analysis", s.Analysis)
	router.GET("/predict", s.PredictForm)
	router.POST("/predict", s.PredictSubmit)

	api := router.Group("/api/v1")
	{
		api.GET("/health", s.Health)
		api.GET("/summary", s.GetSummary)
		api.GET("/describe", s.GetDescribe)
		api.GET("/laptops", s.ListLaptops)
		api.GET("/brands", s.ListBrands)
		api.GET("/charts/:name", s.GetChart)
		api.POST("/predict", s.Predict)
	}

	router.GET("/ws/predict", s.LivePredict)

	s.router = router
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || containsString(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

var templateFuncs = template.FuncMap{
	"eur":    services.FormatEUR,
	"idr":    services.FormatIDR,
	"num":    services.FormatNumber,
	"pct":    services.FormatPercent,
	"add":    func(a, b int) int { return a + b },
	"yesno":  yesNo,
	"hasInt": containsInt,
	"hasF":   containsFloat,
	"fixed1": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	"fixed2": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}
