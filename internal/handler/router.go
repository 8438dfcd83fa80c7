package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Funds     *FundHandler
	Documents *DocumentHandler
	Query     *QueryHandler
	Status    *StatusHandler
	// RateLimit, when set, throttles the endpoints that call out to
	// the embedding and completion models.
	RateLimit gin.HandlerFunc
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/funds", deps.Funds.List)
	api.GET("/funds/:id", deps.Funds.Get)
	api.DELETE("/funds/:id", deps.Funds.Delete)
	api.GET("/funds/:id/documents", deps.Documents.ListByFund)
	api.GET("/documents/:id", deps.Documents.Get)
	api.GET("/documents/:id/content", deps.Documents.Download)
	api.GET("/status", deps.Status.Status)

	limited := api.Group("")
	if deps.RateLimit != nil {
		limited.Use(deps.RateLimit)
	}
	limited.POST("/funds/upload", deps.Funds.Upload)
	limited.POST("/funds/:id/documents", deps.Documents.Add)
	limited.POST("/query", deps.Query.Query)
	limited.POST("/funds/:id/chat", deps.Query.Chat)
}
