package cmd

import (
	"context"
	"fmt"
	"io"

	"cafehere/auth"
	"cafehere/config"
	"cafehere/database"
	"cafehere/repository"
	"cafehere/repository/memory"
	"cafehere/utils"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// app holds what every command needs: config, storage and the token service.
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	rdb       *redis.Client
	store     *repository.Store
	tokens    *auth.TokenService
	logCloser io.Closer
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logCloser, err := utils.InitLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logCloser: logCloser}

	if cfg.DatabaseDriver == "memory" {
		log.Warn().Msg("using the in-memory store; data is lost on exit")
		a.store = memory.NewStore()
	} else {
		if a.db, err = database.Open(cfg); err != nil {
			a.close()
			return nil, err
		}
		a.store = repository.NewGormStore(a.db)
	}

	var blacklist auth.Blacklist
	switch cfg.BlacklistDriver {
	case "redis":
		if a.rdb, err = newRedis(ctx, cfg.RedisURL); err != nil {
			a.close()
			return nil, err
		}
		blacklist = auth.NewRedisBlacklist(a.rdb)
	case "memory":
		blacklist = auth.NewMemoryBlacklist()
	default:
		blacklist = auth.NewDatabaseBlacklist(a.db)
	}

	a.tokens = auth.NewTokenService(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenLifetime,
		RefreshTTL: cfg.RefreshTokenLifetime,
	}, a.store.Users, blacklist)
	return a, nil
}

func (a *app) credentials() *auth.CredentialService {
	return auth.NewCredentialService(a.store.Users)
}

func (a *app) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}
	if a.db != nil {
		database.Close(a.db)
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// newRedis parses the URL, connects and checks the connection.
func newRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}
