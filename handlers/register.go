// Package handlers exposes the widget API: the image try-on endpoint, the
// shade catalog, guest quota status and analytics tracking, all behind the
// multi-strategy API key middleware.
package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/optimosight/vto-go/pipeline"
)

// Register mounts the widget API under /api/vto. CORS is left permissive at
// the transport layer; per-organization origin gating happens in the auth
// middleware where the key is known.
func Register(router *gin.Engine, svcs pipeline.ServicesFactory) {
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api/vto")
	api.Use(Auth(svcs))
	{
		api.POST("/apply", Apply(svcs))
		api.GET("/shades", Shades(svcs))
		api.GET("/guest-usage-status", GuestUsageStatus(svcs))
		api.POST("/track/color-update", TrackColorUpdate(svcs))
		api.POST("/track/application", TrackApplication(svcs))
		api.POST("/reset-guest-usage", ResetGuestUsage(svcs))
	}
}
