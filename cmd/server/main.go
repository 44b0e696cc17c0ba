package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/router"
	"inkwell/internal/store"
	"inkwell/internal/store/gormstore"
	"inkwell/internal/store/memstore"
	"inkwell/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	log := newLogger(cfg)
	gin.SetMode(cfg.GinMode)

	var (
		users    store.UserStore
		posts    store.PostStore
		tags     store.TagStore
		comments store.CommentStore
		stats    store.StatsStore
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect database")
		}
		users, posts, tags, comments, stats = gormstore.New(conn)
		log.Info().Msg("using postgres store")
	} else {
		mem := memstore.New()
		users, posts, tags, comments, stats =
			mem.Users(), mem.Posts(), mem.Tags(), mem.Comments(), mem.Stats()
		log.Warn().Msg("DATABASE_URL not set, using in-memory store; data will not survive restarts")
	}

	var blacklist token.Blacklist
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		blacklist = token.NewRedisBlacklist(client)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis token blacklist")
	} else {
		bl, err := token.NewMemoryBlacklist(4096)
		if err != nil {
			log.Fatal().Err(err).Msg("init token blacklist")
		}
		blacklist = bl
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL, blacklist, users)

	r := router.New(router.Deps{
		Users:    users,
		Posts:    posts,
		Tags:     tags,
		Comments: comments,
		Stats:    stats,
		Tokens:   tokens,
		Log:      log,
	})

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = zerolog.New(os.Stdout)
	if cfg.GinMode == gin.DebugMode {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return out.Level(level).With().Timestamp().Logger()
}
