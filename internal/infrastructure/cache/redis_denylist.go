// Package cache implementa la lista de tokens revocados: Redis cuando está
// configurado y un mapa en memoria en caso contrario.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
)

const revokedKeyPrefix = "revoked:"

var _ ports.TokenDenylist = (*RedisDenylist)(nil)

// RedisDenylist guarda cada jti revocado como clave con TTL hasta el vencimiento del token.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist construye el adaptador sobre un cliente ya conectado.
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (r *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Ya vencido: el middleware lo rechaza igual.
		return nil
	}
	// SetNX: revocar dos veces el mismo token no extiende el TTL.
	return r.client.SetNX(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
