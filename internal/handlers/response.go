package handlers

import "github.com/gin-gonic/gin"

// Envelope is the uniform response wrapper. The status string is
// "Success" for registration and "success" everywhere else; downstream
// clients depend on the exact casing.
type Envelope struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
}

func respond(c *gin.Context, code int, message, status string, data interface{}) {
	c.JSON(code, Envelope{
		Message:    message,
		Status:     status,
		StatusCode: code,
		Data:       data,
	})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{
		Message:    message,
		Status:     "error",
		StatusCode: code,
		Data:       nil,
	})
}
