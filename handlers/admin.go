package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/optimosight/vto-go/pipeline"
)

type resetGuestUsageRequest struct {
	FingerprintHash string `json:"fingerprintHash"`
	IPAddress       string `json:"ipAddress"`
}

// ResetGuestUsage zeroes a guest identity's quota. Super-admin key only.
func ResetGuestUsage(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := authInfo(c)
		if !info.IsSuperAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "super admin key required"})
			return
		}

		var req resetGuestUsageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.FingerprintHash == "" && req.IPAddress == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fingerprintHash or ipAddress required"})
			return
		}

		if err := svcs.DataSvc.ResetGuestUsageByIdentity(req.FingerprintHash, req.IPAddress); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error resetting guest usage"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "reset"})
	}
}
