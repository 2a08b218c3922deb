package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/worldmic/seat-service/internal/config"
	"github.com/worldmic/seat-service/internal/database"
	"github.com/worldmic/seat-service/internal/handler"
	"github.com/worldmic/seat-service/internal/limiter"
	"github.com/worldmic/seat-service/internal/payment"
	"github.com/worldmic/seat-service/internal/pricing"
	"github.com/worldmic/seat-service/internal/queue"
	"github.com/worldmic/seat-service/internal/repository"
	"github.com/worldmic/seat-service/internal/router"
	"github.com/worldmic/seat-service/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	policy := pricing.Policy{
		BaseCents: cfg.BasePriceCents,
		StepCents: cfg.PriceStepCents,
		CapCents:  cfg.PriceCapCents,
	}

	seatRepo := repository.NewSeatStateRepo(db, policy)
	txRepo := repository.NewTransactionRepo(db)
	chatRepo := repository.NewChatRepo(db)

	seats := service.NewSeatService(seatRepo, cfg.HoldDuration)
	payClient := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)
	checkout := service.NewCheckoutService(seats, payClient, cfg.SiteURL, cfg.TipMinCents, cfg.TipMaxCents)
	publisher := queue.NewPublisher(cfg.AMQPURL)
	reconciler := service.NewReconciler(txRepo, seats, publisher, cfg.PaymentWebhookSecret, cfg.WebhookTolerance)

	chatLimiter := limiter.New(cfg.ChatWindow, cfg.ChatBurst)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache disabled")
	}

	// Lazy expiry on the read path already keeps viewers honest; the
	// sweep only freshens the row during idle stretches.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SweepInterval > 0 {
		go sweepLoop(ctx, seats, cfg.SweepInterval)
	}
	go func() {
		if err := queue.StartSeatConsumer(cfg.AMQPURL); err != nil {
			log.Printf("seat consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, router.Handlers{
		State:    handler.NewStateHandler(seats),
		Checkout: handler.NewCheckoutHandler(checkout),
		Webhook:  handler.NewWebhookHandler(reconciler),
		Chat:     handler.NewChatHandler(chatRepo),
		Wall:     handler.NewWallHandler(txRepo),
		Token:    handler.NewTokenHandler(seats, cfg.RTCAPIKey, cfg.RTCAPISecret, cfg.RTCRoom),
	}, chatLimiter, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// sweepLoop periodically vacates an expired hold so the seat row stays
// fresh even when nobody is reading it.
func sweepLoop(ctx context.Context, seats *service.SeatService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := seats.Sweep(ctx)
			if err != nil {
				log.Printf("seat sweep: %v", err)
				continue
			}
			if swept {
				log.Println("seat sweep: hold expired, seat vacated")
			}
		}
	}
}
