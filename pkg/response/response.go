package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
)

// ErrorBody is the error contract shared with the registration form: a single
// human-readable message under "error".
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON sends a success payload as-is. The form client reads top-level fields,
// so no envelope is added.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.Header("X-Error-Code", appErr.Code)
	c.AbortWithStatusJSON(appErr.Status, ErrorBody{Error: appErr.Message})
}
