package health

import (
	"github.com/gin-gonic/gin"
)

// ResponseHandler is the subset of the HTTP response surface the health
// endpoint needs
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
}
