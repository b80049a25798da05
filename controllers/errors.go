package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

var errInternal = errors.New("internal server error")

// respondServiceError translates service errors into the JSON error envelope.
// Unexpected errors are logged and hidden behind a generic message.
func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, code, errInternal)
		return
	}
	utils.RespondError(c, code, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrHostelNotFound),
		errors.Is(err, services.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateBooking),
		errors.Is(err, services.ErrSlotUnavailable),
		errors.Is(err, services.ErrSlotNotBooked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// currentUserID reads the id placed in the context by the auth middleware, 0 if absent.
func currentUserID(c *gin.Context) uint {
	return c.GetUint(middlewares.ContextUserID)
}
