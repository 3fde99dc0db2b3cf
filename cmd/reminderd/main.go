package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	reminderhttp "github.com/aquatrack/reminderd/internal/api/handlers/reminder"
	"github.com/aquatrack/reminderd/internal/api/router"
	"github.com/aquatrack/reminderd/internal/api/server"
	"github.com/aquatrack/reminderd/internal/config"
	"github.com/aquatrack/reminderd/internal/dedup"
	"github.com/aquatrack/reminderd/internal/dispatch"
	remindermsg "github.com/aquatrack/reminderd/internal/rabbitmq/handlers/reminder"
	"github.com/aquatrack/reminderd/internal/rabbitmq/queue"
	"github.com/aquatrack/reminderd/internal/registry"
	reminderrepo "github.com/aquatrack/reminderd/internal/repository/reminder"
	remindersvc "github.com/aquatrack/reminderd/internal/service/reminder"
	"github.com/aquatrack/reminderd/internal/scheduler"
	"github.com/aquatrack/reminderd/internal/worker"
	"github.com/aquatrack/reminderd/internal/ws"
	"github.com/aquatrack/reminderd/pkg/email"
	"github.com/aquatrack/reminderd/pkg/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	repo := reminderrepo.NewRepository(db)
	reg := registry.New()
	service := remindersvc.NewService(reg, repo, cfg.Retry)

	// Redis-backed markers survive restarts; without an address the
	// markers live in process memory, which at worst repeats a firing
	// still inside its window after a restart.
	var markers dedup.Markers = dedup.NewMemory()
	if cfg.Redis.Address != "" {
		rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)
		if err = rdb.Ping(ctx).Err(); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		markers = dedup.NewRedis(rdb, cfg.Retry)
	}

	hub := ws.NewHub()
	dispatcher := dispatch.New(hub, cfg.Notify.Scope, cfg.Retry)

	var closeFallback func()

	if cfg.Fallback.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}

		ch, err := conn.Channel()
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
		}

		closeFallback = func() {
			if err := ch.Close(); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
			}
			if err := conn.Close(); err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
			}
		}

		q, err := queue.NewFallbackQueue(ch)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to create fallback queue")
		}

		notifiers := map[string]remindermsg.Notifier{
			remindermsg.ChannelEmail: email.NewClient(
				cfg.Email.SMTPHost,
				cfg.Email.SMTPPort,
				cfg.Email.Username,
				cfg.Email.Password,
				cfg.Email.From,
			),
			remindermsg.ChannelTelegram: telegram.NewClient(cfg.Telegram.Token),
		}

		messageHandler := remindermsg.NewHandler(repo, notifiers)
		fallback := worker.NewFallback(q, messageHandler)
		go fallback.Run(ctx, cfg.Retry, cfg.Workers.Count)

		dispatcher.EnableFallback(q)
	}

	// First load; a failing store only delays the registry until the
	// next sync, it never blocks startup.
	if _, err := service.Sync(ctx); err != nil {
		zlog.Logger.Warn().Err(err).Msg("initial sync failed, starting with empty registry")
	}

	sched := scheduler.New(reg, markers, dispatcher, cfg.Scheduler.Tick, cfg.Scheduler.Window)
	go sched.Run(ctx)

	proto := ws.NewProtocol(service, dispatcher)
	wsHandler := ws.NewHandler(hub, proto)
	reminderHandler := reminderhttp.NewHandler(service, val)

	r := router.New(reminderHandler, wsHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// In-flight notifications are not drained, per the push contract.
	hub.Close()
	reg.Clear()

	if closeFallback != nil {
		closeFallback()
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close master DB")
	}
	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Error().Err(err).Int("slave", i).Msg("failed to close slave DB")
		}
	}
}
