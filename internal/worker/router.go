package worker

import (
	"github.com/gin-gonic/gin"

	"camwatch/internal/api"
)

func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.LoggerMiddleware())
	r.Use(api.RequestIDMiddleware())

	r.GET("/hello", h.Hello)
	r.GET("/verify", h.Verify)

	containers := r.Group("/containers")
	{
		containers.POST("/start", h.StartContainers)
		containers.POST("/stop", h.StopContainers)
		containers.GET("/get", h.GetContainers)
	}

	return r
}
