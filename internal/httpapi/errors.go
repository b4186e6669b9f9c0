package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/agenda_service/internal/service"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindIntegrity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error onto the JSON error envelope.
// Internal errors do not leak their message.
func writeError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	msg := err.Error()
	if kind == service.KindInternal {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(statusFor(kind), errorBody{Error: msg, Code: kind.String()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: msg, Code: service.KindValidation.String()})
}
