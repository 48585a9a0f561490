// README: Itinerary handlers: HTML form, JSON API and PDF download.
package handlers

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripwise/internal/http/middleware"
	"tripwise/internal/modules/itinerary"
	"tripwise/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML pages for gin's renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Planner is the slice of service.Planner the handlers use.
type Planner interface {
	Plan(ctx context.Context, req itinerary.Request) (*service.Result, error)
	PlanText(ctx context.Context, req itinerary.Request) string
}

type ItineraryHandler struct {
	planner Planner
	timeout time.Duration
}

func NewItineraryHandler(planner Planner, timeout time.Duration) *ItineraryHandler {
	return &ItineraryHandler{planner: planner, timeout: timeout}
}

// DefaultRequest pre-fills the form.
var DefaultRequest = itinerary.Request{
	UserID:          "user123",
	Origin:          "New York, JFK",
	Destination:     "Paris",
	TripDuration:    "3 days",
	StartDate:       "2025-10-01",
	UserPreferences: "I like museums and Italian food",
}

type pageData struct {
	Request itinerary.Request
	Output  string
}

func (h *ItineraryHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// withCaller lets a verified token's UID win over the submitted user id.
func withCaller(c *gin.Context, req itinerary.Request) itinerary.Request {
	if uid := middleware.CallerUID(c); uid != "" {
		req.UserID = uid
	}
	return req
}

// Form handles GET /.
func (h *ItineraryHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{Request: DefaultRequest})
}

// Submit handles POST /itinerary. Failures are shown on the page, never as an error status.
func (h *ItineraryHandler) Submit(c *gin.Context) {
	var req itinerary.Request
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "index.html", pageData{Request: req, Output: service.FailurePrefix + err.Error()})
		return
	}
	req = withCaller(c, req)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out := h.planner.PlanText(ctx, req)
	c.HTML(http.StatusOK, "index.html", pageData{Request: req, Output: out})
}

// RejectForm shows a middleware rejection on the form page. The page still
// answers 200 so the browser keeps the submitted fields.
func (h *ItineraryHandler) RejectForm(c *gin.Context, _ int, msg string) {
	var req itinerary.Request
	_ = c.ShouldBind(&req)
	c.HTML(http.StatusOK, "index.html", pageData{Request: req, Output: service.FailurePrefix + msg})
	c.Abort()
}

// Create handles POST /api/itineraries.
func (h *ItineraryHandler) Create(c *gin.Context) {
	var req itinerary.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req = withCaller(c, req)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.planner.Plan(ctx, req)
	if err != nil {
		writePlanError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// PDF handles POST /api/itineraries/pdf.
func (h *ItineraryHandler) PDF(c *gin.Context) {
	var req itinerary.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req = withCaller(c, req)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.planner.Plan(ctx, req)
	if err != nil {
		writePlanError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := itinerary.RenderPDF(res.Itinerary, &buf); err != nil {
		writeError(c, http.StatusInternalServerError, "render pdf: "+err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="itinerary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Health handles GET /health.
func Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
