// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripwise/internal/ai"
	"tripwise/internal/modules/itinerary"
	"tripwise/internal/modules/usage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// planStatus maps a planner failure to the HTTP status of the JSON API.
func planStatus(err error) int {
	switch {
	case errors.Is(err, itinerary.ErrQuery):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, itinerary.ErrParse), errors.Is(err, itinerary.ErrSchema), errors.Is(err, itinerary.ErrSchedule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usage.ErrInsufficientTokens):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writePlanError(c *gin.Context, err error) {
	writeError(c, planStatus(err), err.Error())
}
