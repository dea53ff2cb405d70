package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/pipeline"
	"github.com/optimosight/vto-go/service/lgr"
)

const authInfoKey = "authInfo"

// AuthInfo is the resolved identity of a widget API request: a guest (quota
// tracked), a super admin, or an organization key.
type AuthInfo struct {
	APIKey         string
	OrganizationID *uint
	IsSuperAdmin   bool
	IsGuest        bool
	GuestUsage     *model.GuestUsage
}

// Auth validates the API key from the X-API-Key header or the api_key query
// parameter, enforces the guest quota and the organization's allowed
// origins, and stores the AuthInfo on the context.
func Auth(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if apiKey == svcs.CfgSvc.GetGuestAPIKey() {
			authenticateGuest(c, svcs, apiKey)
			return
		}

		if super := svcs.CfgSvc.GetSuperAdminAPIKey(); super != "" && apiKey == super {
			org, err := svcs.DataSvc.RetrieveFirstOrganization()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no organizations found"})
				return
			}
			orgID := org.ID
			c.Set(authInfoKey, AuthInfo{APIKey: apiKey, OrganizationID: &orgID, IsSuperAdmin: true})
			c.Next()
			return
		}

		org, key, err := svcs.DataSvc.RetrieveOrganizationByAPIKey(apiKey)
		if err != nil {
			lgr.Logger.Warn(
				"invalid API key attempt",
				slog.String("key", apiKey),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or inactive API key"})
			return
		}

		if origin := c.GetHeader("Origin"); !originAllowed(org.AllowedOrigins, origin) {
			lgr.Logger.Warn(
				"origin rejected for organization",
				slog.String("origin", origin),
				slog.Uint64("org", uint64(org.ID)),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "origin not allowed"})
			return
		}

		orgID := key.OrganizationID
		c.Set(authInfoKey, AuthInfo{APIKey: apiKey, OrganizationID: &orgID})
		c.Next()
	}
}

func authenticateGuest(c *gin.Context, svcs pipeline.ServicesFactory, apiKey string) {
	window := time.Duration(svcs.CfgSvc.GetGuestResetPeriodHours()) * time.Hour
	fingerprintHash, clientIP, userAgentHash := fingerprint(c)

	usage, err := svcs.DataSvc.RetrieveGuestUsage(fingerprintHash, clientIP, userAgentHash, window)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error tracking guest usage"})
		return
	}

	limit := svcs.CfgSvc.GetGuestUsageLimit()
	if usage.UsageCount >= limit {
		if time.Since(usage.LastVisit) > window {
			// The quota window has lapsed; start a fresh one.
			if err := svcs.DataSvc.ResetGuestUsage(usage.ID); err == nil {
				usage.UsageCount = 0
			}
		}

		if usage.UsageCount >= limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "guest usage limit reached, please subscribe to continue",
				"usageCount": usage.UsageCount,
				"limit":      limit,
				"resetTime":  usage.LastVisit.Add(window).Format(time.RFC3339),
			})
			return
		}
	}

	c.Set(authInfoKey, AuthInfo{APIKey: apiKey, IsGuest: true, GuestUsage: &usage})
	c.Next()
}

func authInfo(c *gin.Context) AuthInfo {
	v, ok := c.Get(authInfoKey)
	if !ok {
		return AuthInfo{}
	}
	info, _ := v.(AuthInfo)
	return info
}

// originAllowed matches a request Origin against the organization's
// comma-separated allow list. An empty list allows any origin, as does an
// absent Origin header (non-browser clients).
func originAllowed(allowedOrigins, origin string) bool {
	allowedOrigins = strings.TrimSpace(allowedOrigins)
	if allowedOrigins == "" || origin == "" {
		return true
	}

	for _, allowed := range strings.Split(allowedOrigins, ",") {
		allowed = strings.TrimSpace(allowed)
		if allowed == "" {
			continue
		}
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	return false
}

// fingerprint derives a stable guest identity from the request the same way
// the widget backend always has: a digest over the address and the
// identifying headers.
func fingerprint(c *gin.Context) (fingerprintHash, clientIP, userAgentHash string) {
	clientIP = c.ClientIP()
	userAgent := c.GetHeader("User-Agent")

	payload, _ := json.Marshal(map[string]string{
		"ip":              clientIP,
		"user_agent":      userAgent,
		"accept_language": c.GetHeader("Accept-Language"),
		"accept_encoding": c.GetHeader("Accept-Encoding"),
	})

	fp := sha256.Sum256(payload)
	ua := sha256.Sum256([]byte(userAgent))
	return hex.EncodeToString(fp[:]), clientIP, hex.EncodeToString(ua[:])
}

// incrementGuestUsage counts one billable call for guest identities.
func incrementGuestUsage(svcs pipeline.ServicesFactory, info AuthInfo) {
	if !info.IsGuest || info.GuestUsage == nil {
		return
	}
	if err := svcs.DataSvc.IncrementGuestUsage(info.GuestUsage.ID); err != nil {
		lgr.Logger.Error(
			"error incrementing guest usage",
			slog.Any("error", err),
		)
	}
}
