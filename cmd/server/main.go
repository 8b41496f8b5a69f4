package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/wastezero/volunteer-hub/internal/config"
	"github.com/wastezero/volunteer-hub/internal/database"
	"github.com/wastezero/volunteer-hub/internal/handler"
	"github.com/wastezero/volunteer-hub/internal/queue"
	"github.com/wastezero/volunteer-hub/internal/realtime"
	"github.com/wastezero/volunteer-hub/internal/repository"
	"github.com/wastezero/volunteer-hub/internal/router"
	"github.com/wastezero/volunteer-hub/internal/service"
)

func main() {
	// .env is a development convenience; in production the variables come
	// from the environment and the file is simply absent.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the auth rate limiter and the public-listing cache.  A nil
	// client disables both; the service itself keeps working.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	opps := repository.NewOpportunityRepo(db)
	msgs := repository.NewMessageRepo(db)
	tokens := repository.NewTokenRepo(db)

	hub := realtime.NewHub()

	msgSvc := service.NewMessageService(users, opps, msgs, hub)
	msgSvc.PublishEvent = service.PublishMessageSent

	// The audit consumer drains message.sent events into the log file.  It
	// reconnects on its own; a dead broker never blocks message delivery.
	go func() {
		if err := queue.StartMessageConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), rdb)
	router.RegisterUsers(e, handler.NewProfileHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterOpportunities(e, handler.NewOpportunityHandler(opps), cfg.JWTSecret, rdb)
	router.RegisterMatches(e, handler.NewMatchHandler(users, opps), cfg.JWTSecret)
	router.RegisterMessages(e, handler.NewMessageHandler(msgSvc, msgs), cfg.JWTSecret)
	router.RegisterRealtime(e, handler.NewWSHandler(hub, cfg.JWTSecret))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
