package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorBody carries the machine-readable error classification alongside any
// extra detail; the human-readable message lives at the envelope level.
type ErrorBody struct {
	Kind    string      `json:"kind"`
	Details interface{} `json:"details,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response classified by kind
func Error(c *gin.Context, code int, message, kind string, details interface{}) {
	var body *ErrorBody
	if kind != "" || details != nil {
		body = &ErrorBody{Kind: kind, Details: details}
	}

	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     body,
		RequestID: requestID(c),
	})
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string)
	return idStr
}
