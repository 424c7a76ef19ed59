package v1

import (
	"github.com/gin-gonic/gin"

	"zhipin-server/internal/interfaces/httpserver/handlers"
)

func registerMatchRoutes(router gin.IRoutes, handler *handlers.MatchHandler) {
	router.POST("/matches", handler.Create)
	router.GET("/matches/:job_id", handler.Get)
}
