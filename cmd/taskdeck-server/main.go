package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/notification"
	notificationrepo "github.com/taskdeck/taskdeck/internal/notification/repositoryimpl"
	"github.com/taskdeck/taskdeck/internal/push"
	pushrepo "github.com/taskdeck/taskdeck/internal/push/repositoryimpl"
	"github.com/taskdeck/taskdeck/internal/realtime"
	"github.com/taskdeck/taskdeck/internal/task"
	taskrepo "github.com/taskdeck/taskdeck/internal/task/repositoryimpl"
	"github.com/taskdeck/taskdeck/internal/user"
	userrepo "github.com/taskdeck/taskdeck/internal/user/repositoryimpl"
	"github.com/taskdeck/taskdeck/pkg/clog"
	"github.com/taskdeck/taskdeck/pkg/storage"

	server "github.com/taskdeck/taskdeck/internal"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(context.Background(), env.StorageEnv.S3Bucket, env.StorageEnv.S3Prefix, env.StorageEnv.S3Region)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup repositories
	userRepo := userrepo.NewYAMLRepository(store)
	taskRepo := taskrepo.NewYAMLRepository(store)
	notificationRepo := notificationrepo.NewYAMLRepository(store)
	pushSubRepo := pushrepo.NewYAMLRepository(store)

	// Setup dispatcher hub and auth
	hub := realtime.NewHub()
	tokens := auth.NewTokenService(config.AuthEnvFromEnv(env))

	// Setup services
	userService := user.NewService(userRepo, tokens)
	vapidEnv := config.VAPIDEnvFromEnv(env)
	pushSender := push.NewSender(vapidEnv, pushSubRepo)
	generator := notification.NewGenerator(notificationRepo, hub, pushSender)
	taskService := task.NewService(taskRepo, userService, hub, generator)
	notificationService := notification.NewService(notificationRepo)

	srv := server.NewServer(
		env,
		tokens,
		user.NewHandler(userService),
		task.NewHandler(taskService),
		notification.NewHandler(notificationService),
		push.NewHandler(vapidEnv, pushSubRepo),
		realtime.NewStreamHandler(hub, tokens),
	)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	// Give open connections time to finish after stream contexts are cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
