package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/florafolio/florafolio"
	"github.com/florafolio/florafolio/catalog"
	"github.com/florafolio/florafolio/httpapi"
	"github.com/florafolio/florafolio/internal/config"
	"github.com/florafolio/florafolio/password"
	"github.com/florafolio/florafolio/store/postgres"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("ping redis")
	}
	defer rdb.Close()

	engineCfg := florafolio.DefaultConfig()
	engineCfg.JWT.Secret = []byte(cfg.JWTSecret)
	engineCfg.JWT.TTL = cfg.TokenTTL
	engineCfg.Blacklist.Retention = cfg.BlacklistRetention

	users := postgres.NewUserStore(db)

	engine, err := florafolio.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithUserStore(users).
		WithAuditSink(florafolio.NewJSONWriterSink(os.Stderr)).
		Build()
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}
	defer engine.Close()

	// Seeded accounts must hash with the same parameters the engine uses.
	hasher, err := password.NewArgon2(password.Config{
		Memory:      engineCfg.Password.Memory,
		Time:        engineCfg.Password.Time,
		Parallelism: engineCfg.Password.Parallelism,
		SaltLength:  engineCfg.Password.SaltLength,
		KeyLength:   engineCfg.Password.KeyLength,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configure hasher")
	}
	if err := seedUsers(ctx, users, hasher, cfg.UsersPath); err != nil {
		log.Fatal().Err(err).Msg("seed users")
	}

	plants := catalog.NewService(postgres.NewPlantStore(db))
	if err := plants.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed plants")
	}

	server := httpapi.New(cfg.HTTPAddr, engine, httpapi.NewPlantAPI(plants), log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
