package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"github.com/redis/go-redis/v9"
	"uk.co.dudmesh.gatehouse/internal/boot"
	"uk.co.dudmesh.gatehouse/internal/directory"
	"uk.co.dudmesh.gatehouse/internal/handlers"
	"uk.co.dudmesh.gatehouse/internal/service/moderation"
	"uk.co.dudmesh.gatehouse/internal/service/post"
	"uk.co.dudmesh.gatehouse/internal/store"
)

type config struct {
	boot.Config
	postService       handlers.PostService
	moderationService handlers.ModerationService
}

func newConfig(bootConfig *boot.Config) *config {
	datastore, err := store.Open(bootConfig)
	if err != nil {
		log.Fatalf("opening store: %+v", err)
	}

	var cache *redis.Client
	if bootConfig.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:         bootConfig.Redis.Addr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
	}

	communityDirectory := directory.New(datastore, cache)

	return &config{
		Config:            *bootConfig,
		postService:       post.New(datastore, communityDirectory),
		moderationService: moderation.New(datastore, communityDirectory),
	}
}

func main() {
	bootConfig, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	config := newConfig(bootConfig)

	server := echo.New()
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("gatehouse"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(log.INFO)
	server.HTTPErrorHandler = handlers.HTTPErrorHandler

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     config.ServerOrigins(),
		AllowHeaders:     headers,
		AllowCredentials: true,
	}))

	authenticated := server.Group("", handlers.Authenticate(config.Auth.JWTSecret))

	posts := authenticated.Group("/posts")
	posts.POST("", handlers.SubmitPost(config.postService))
	posts.GET("/feed", handlers.GetFeed(config.postService))
	posts.GET("/community/:communityId", handlers.GetCommunityPosts(config.postService))
	posts.GET("/:id", handlers.GetPost(config.postService))

	notifications := authenticated.Group("/notifications", handlers.RequireModerator)
	notifications.GET("", handlers.ListNotifications(config.moderationService))
	notifications.GET("/queue", handlers.GetModerationQueue(config.moderationService))
	notifications.GET("/moderate/:postId", handlers.GetPostForModeration(config.moderationService))
	notifications.PATCH("/accept/:postId", handlers.AcceptPost(config.moderationService))
	notifications.PATCH("/reject/:postId", handlers.RejectPost(config.moderationService))
	notifications.PATCH("/read/:id", handlers.MarkNotificationRead(config.moderationService))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
