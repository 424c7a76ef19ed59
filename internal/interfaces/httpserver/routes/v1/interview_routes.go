package v1

import (
	"github.com/gin-gonic/gin"

	"zhipin-server/internal/interfaces/httpserver/handlers"
)

func registerInterviewRoutes(router gin.IRoutes, handler *handlers.InterviewHandler) {
	router.POST("/interviews", handler.Create)
	router.GET("/interviews/:conversation_id", handler.Get)
	router.GET("/interviews/:conversation_id/auto", handler.Auto)
	router.POST("/interviews/:conversation_id/evaluate", handler.Evaluate)
	router.POST("/interviews/:conversation_id/reset", handler.Reset)
}
