// Package api is the gin surface of the API process: login endpoints,
// liveness probes, and the middleware chain shared with the worker.
package api

import "github.com/gin-gonic/gin"

// Every endpoint replies with this envelope; the dashboard switches on
// Status alone.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type Message struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginData struct {
	SessionID string `json:"sessionId"`
}

func respondSuccess(c *gin.Context, code int, data any) {
	c.JSON(code, Response{Status: "success", Data: data})
}

func respondFail(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{Status: "fail", Data: Message{Message: msg}})
}

func abortFail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Response{Status: "fail", Data: Message{Message: msg}})
}
