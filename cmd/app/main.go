package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	dbadapter "postboard/internal/adapters/database"
	"postboard/internal/adapters/httpapi"
	redisadapter "postboard/internal/adapters/redis"
	"postboard/internal/config"
	commentapp "postboard/internal/core/comment/service"
	likeapp "postboard/internal/core/like/service"
	postapp "postboard/internal/core/post/service"
	userapp "postboard/internal/core/user/service"
	sessionPort "postboard/internal/ports/session"
)

func main() {
	config.InitLogger()
	defer config.SyncLogger()
	config.Init()

	config.InitDB()
	if err := dbadapter.AutoMigrate(config.DB); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("Database migrations completed")

	config.InitRedis()
	defer closeResources(config.Logger)

	var tokens sessionPort.TokenStore = sessionPort.NopTokenStore{}
	if config.RedisClient != nil {
		tokens = redisadapter.NewTokenRepositoryRedis(config.RedisClient, config.Logger)
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(config.DB)
	postRepo := dbadapter.NewPostRepositoryDatabase(config.DB)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(config.DB)
	likeRepo := dbadapter.NewLikeRepositoryDatabase(config.DB)

	userSvc := userapp.NewUserService(userRepo, tokens, []byte(config.App.JWTSecret), config.App.JWTTTL, config.Logger)
	postSvc := postapp.NewPostService(postRepo, config.Logger)
	commentSvc := commentapp.NewCommentService(commentRepo, postRepo, config.Logger)
	likeSvc := likeapp.NewLikeService(likeRepo, postRepo, config.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.App.AdminUsername != "" && config.App.AdminPassword != "" {
		if err := userSvc.EnsureAdmin(ctx, config.App.AdminUsername, config.App.AdminPassword); err != nil {
			config.Logger.Fatal("Error bootstrapping admin account", zap.Error(err))
		}
		config.Logger.Info("Admin account ready", zap.String("username", config.App.AdminUsername))
	}

	r := httpapi.SetupRoutes(userSvc, postSvc, commentSvc, likeSvc, config.Logger)

	handler := cors.New(cors.Options{
		AllowedOrigins:   config.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.Info("App is running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Error("Error during server shutdown", zap.Error(err))
	}
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger) {
	if err := config.CloseRedis(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}
	if err := config.CloseDB(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
