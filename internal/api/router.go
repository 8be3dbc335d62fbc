package api

import (
	"camwatch/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORSOrigin string
	MaxCalls   int
}

func NewRouter(cfg RouterConfig, auth *AuthHandler, probe *ProbeHandler, jobEvents *EventsHandler, counters ratelimit.Counters, signer *CookieSigner) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware(cfg.CORSOrigin))
	r.Use(RequestIDMiddleware())
	r.Use(RateLimitMiddleware(counters, cfg.MaxCalls, signer))

	r.GET("/", probe.Root)
	r.GET("/hello", probe.Hello)
	r.GET("/verify", probe.Verify)
	r.GET("/jobs/events", jobEvents.Recent)

	user := r.Group("/user/v1")
	{
		user.POST("/login/admin", auth.AdminLogin)
		user.POST("/login/employee", auth.EmployeeLogin)
	}

	return r
}
