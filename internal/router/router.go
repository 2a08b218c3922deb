package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/worldmic/seat-service/internal/config"
	"github.com/worldmic/seat-service/internal/handler"
	"github.com/worldmic/seat-service/internal/limiter"
	"github.com/worldmic/seat-service/internal/middleware"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	State    *handler.StateHandler
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Chat     *handler.ChatHandler
	Wall     *handler.WallHandler
	Token    *handler.TokenHandler
}

// Register registers all application routes on the provided Echo
// instance.  The chat write path is the only route behind the admission
// limiter; read projections optionally sit behind the Redis response
// cache (rdb may be nil, which disables it).
func Register(e *echo.Echo, h Handlers, chatLimiter *limiter.Limiter, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cached := middleware.NewResponseCache(cacheCfg, rdb)

	v1 := e.Group("/v1")
	v1.GET("/state", h.State.Get, cached)
	v1.POST("/checkout", h.Checkout.Buy)
	v1.POST("/tip", h.Checkout.Tip)
	v1.POST("/webhooks/payment", h.Webhook.Receive)
	v1.POST("/chat", h.Chat.Post, middleware.ChatAdmission(chatLimiter))
	v1.GET("/chat/feed", h.Chat.Feed, cached)
	v1.GET("/wall", h.Wall.List, cached)
	v1.POST("/rtc/token", h.Token.Issue)
}
