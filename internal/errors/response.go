package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape of the API.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
	Detail  string      `json:"detail,omitempty"`
}

// HTTPStatus maps an error kind to its HTTP status code. Conflicts are
// reported as 400, matching the API contract.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes a success envelope.
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data, Error: nil})
}

// RespondError writes the failure envelope for err. The wrapped cause is
// included only outside release mode.
func RespondError(c *gin.Context, err error) {
	kind := KindOf(err)

	envelope := Envelope{Success: false, Data: nil, Error: MessageOf(err)}
	if gin.Mode() != gin.ReleaseMode {
		var appErr *Error
		if ok := asAppError(err, &appErr); ok && appErr.Err != nil {
			envelope.Detail = appErr.Err.Error()
		}
	}

	c.JSON(HTTPStatus(kind), envelope)
}

// AbortWithError writes the failure envelope and aborts the handler chain.
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}
