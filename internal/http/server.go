// README: API gateway; builds the gin engine, registers routes and wraps it with CORS.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"tripwise/internal/http/handlers"
	"tripwise/internal/http/middleware"
	"tripwise/internal/infra"
)

type ServerDeps struct {
	Planner     handlers.Planner
	Verifier    infra.TokenVerifier
	PlanTimeout time.Duration
	RateRPS     float64
	RateBurst   int
	CORSOrigins []string
}

type Server struct {
	itinerary   *handlers.ItineraryHandler
	verifier    infra.TokenVerifier
	limiter     *middleware.RateLimiter
	corsOrigins []string
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		itinerary:   handlers.NewItineraryHandler(deps.Planner, deps.PlanTimeout),
		verifier:    deps.Verifier,
		corsOrigins: deps.CORSOrigins,
	}
	if deps.RateRPS > 0 {
		s.limiter = middleware.NewRateLimiter(deps.RateRPS, deps.RateBurst)
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())
	r.SetHTMLTemplate(handlers.Templates())

	r.GET("/health", handlers.Health)
	r.GET("/", s.itinerary.Form)

	// The form route renders rejections into the page; the API answers JSON.
	form := r.Group("/")
	if s.limiter != nil {
		form.Use(s.limiter.LimitWith(s.itinerary.RejectForm))
	}
	form.Use(middleware.AuthWith(s.verifier, s.itinerary.RejectForm))
	form.POST("/itinerary", s.itinerary.Submit)

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(s.limiter.Limit())
	}
	api.Use(middleware.Auth(s.verifier))
	api.POST("/itineraries", s.itinerary.Create)
	api.POST("/itineraries/pdf", s.itinerary.PDF)

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}
