package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"tapid-connect/config"
	"tapid-connect/internal/mw"
)

// NewRouter creates and configures a new Gin router. responses backs the
// GET cache; the caller flushes it when the connect store changes. A nil
// cache disables response caching.
func NewRouter(h *Handler, cfg config.ServerConfig, responses *cache.Cache) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	caching := func(c *gin.Context) { c.Next() }
	if responses != nil {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		caching = mw.Cache(responses, ttl)
	}

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/terminals", h.GetTerminals)
		api.GET("/terminals/connected", h.GetConnectedTerminals)
		api.POST("/terminals/:id/connect", h.ConnectTerminal)
		api.GET("/terminals/:id/status", h.GetTerminalStatus)
		api.DELETE("/terminals/:id", h.DisconnectTerminal)

		api.GET("/analytics", caching, h.GetAnalytics)
		api.POST("/analytics/refresh", h.RefreshAnalytics)
		api.GET("/analytics/hourly", caching, h.GetHourlyActivity)
		api.PUT("/analytics/day", h.PutSelectedDay)
		api.GET("/export", h.GetExport)
		api.GET("/events", caching, h.GetEvents)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		api.GET("/oauth/:provider/authorize", h.GetOAuthAuthorize)
		api.GET("/oauth/:provider/callback", h.GetOAuthCallback)
		api.GET("/oauth/:provider/credential", h.GetOAuthCredential)
	}

	return r
}
