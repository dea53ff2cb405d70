package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/pipeline"
	"github.com/optimosight/vto-go/service/lgr"
)

// Shades returns the preset catalog for a cosmetic category.
func Shades(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", "lipstick")
		if _, ok := categoryRegions[category]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category: " + category})
			return
		}

		shades, err := svcs.DataSvc.RetrieveShades(category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error retrieving shades"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"category": category, "shades": shades})
	}
}

// GuestUsageStatus reports how much of the free quota a guest identity has
// left. Keyed requests have no quota and report unlimited.
func GuestUsageStatus(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := authInfo(c)
		if !info.IsGuest || info.GuestUsage == nil {
			c.JSON(http.StatusOK, gin.H{"isGuest": false, "unlimited": true})
			return
		}

		limit := svcs.CfgSvc.GetGuestUsageLimit()
		remaining := limit - info.GuestUsage.UsageCount
		if remaining < 0 {
			remaining = 0
		}

		window := time.Duration(svcs.CfgSvc.GetGuestResetPeriodHours()) * time.Hour
		c.JSON(http.StatusOK, gin.H{
			"isGuest":    true,
			"usageCount": info.GuestUsage.UsageCount,
			"limit":      limit,
			"remaining":  remaining,
			"resetTime":  info.GuestUsage.LastVisit.Add(window).Format(time.RFC3339),
		})
	}
}

type trackRequest struct {
	Category string `json:"category" binding:"required"`
	Color    string `json:"color"`
}

// TrackColorUpdate records a shade selection made inside the widget.
func TrackColorUpdate(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return track(svcs, "color-update")
}

// TrackApplication records a widget embed coming alive on a page.
func TrackApplication(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return track(svcs, "application")
}

func track(svcs pipeline.ServicesFactory, endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		info := authInfo(c)
		err := svcs.DataSvc.NewUsageLog(model.UsageLog{
			OrganizationID: info.OrganizationID,
			Endpoint:       endpoint,
			Category:       req.Category,
			Color:          req.Color,
		})
		if err != nil {
			lgr.Logger.Error(
				"error recording usage log",
				slog.String("endpoint", endpoint),
				slog.Any("error", err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error recording event"})
			return
		}

		if svcs.WebhookSvc != nil {
			err := svcs.WebhookSvc.Post(map[string]interface{}{
				"event":    endpoint,
				"category": req.Category,
				"color":    req.Color,
			})
			if err != nil {
				lgr.Logger.Warn(
					"error forwarding event to analytics webhook",
					slog.Any("error", err),
				)
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "recorded"})
	}
}
