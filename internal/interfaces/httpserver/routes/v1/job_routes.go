package v1

import (
	"github.com/gin-gonic/gin"

	"zhipin-server/internal/interfaces/httpserver/handlers"
)

func registerJobRoutes(router gin.IRoutes, handler *handlers.JobHandler) {
	router.GET("/jobs", handler.List)
	router.GET("/jobs/recommendations", handler.Recommendations)
	router.GET("/jobs/:job_id", handler.Get)
}
