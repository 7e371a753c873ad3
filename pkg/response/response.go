package response

import "github.com/gin-gonic/gin"

// Response is the envelope every terminal endpoint answers with
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// JSON writes data in a success envelope
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Success(statusCode, data))
}

// Fail writes an error envelope; the handler chain continues
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Error(statusCode, message))
}

// Abort writes an error envelope and stops the handler chain
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Error(statusCode, message))
}
