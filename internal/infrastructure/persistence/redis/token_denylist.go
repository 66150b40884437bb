// Package redis guarda os tokens revogados no logout.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/infrastructure/config"
)

const denylistPrefix = "auth:denylist:"

// NewClient conecta ao Redis a partir de REDIS_URL e faz um Ping
func NewClient(ctx context.Context, cfg config.RedisConfig, log ports.Logger) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected successfully", "addr", opts.Addr, "db", opts.DB)
	return rdb, nil
}

// TokenDenylist implementa ports.TokenDenylist com chaves expiráveis
type TokenDenylist struct {
	rdb goredis.Cmdable
}

// NewTokenDenylist cria a denylist sobre um cliente Redis
func NewTokenDenylist(rdb goredis.Cmdable) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

var _ ports.TokenDenylist = (*TokenDenylist)(nil)

// Revoke mantém o jti até o fim da validade do token; tokens já expirados são ignorados
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
