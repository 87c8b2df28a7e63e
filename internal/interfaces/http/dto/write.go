package dto

import "github.com/gin-gonic/gin"

// ErrorCodeKey is the gin context key holding the code of an error envelope
// that has been written, for metrics and tracing further up the chain.
const ErrorCodeKey = "response.error_code"

// JSON writes resp with status
func JSON(c *gin.Context, status int, resp Response) {
	remember(c, resp)
	c.JSON(status, resp)
}

// Abort writes resp with status and stops the handler chain
func Abort(c *gin.Context, status int, resp Response) {
	remember(c, resp)
	c.AbortWithStatusJSON(status, resp)
}

// ErrorCode returns the code written by JSON or Abort, "" for success
func ErrorCode(c *gin.Context) string {
	return c.GetString(ErrorCodeKey)
}

func remember(c *gin.Context, resp Response) {
	if resp.Error != nil {
		c.Set(ErrorCodeKey, resp.Error.Code)
	}
}
