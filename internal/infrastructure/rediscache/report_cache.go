// Package rediscache implementa el cache de reportes sobre Redis. Si Redis
// no está configurado, la app usa el NoopReportCache de application/pnl y
// todo sigue funcionando sin cache.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/application/pnl"
)

// keyPrefix separa las llaves de reportes del resto de la base Redis.
const keyPrefix = "pnl:"

var _ pnl.ReportCache = (*ReportCache)(nil)

// ReportCache implementa pnl.ReportCache sobre Redis con TTL por reporte.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New construye el cache y verifica la conexión.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*ReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &ReportCache{client: client, ttl: ttl}, nil
}

// Get implementa pnl.ReportCache.
func (c *ReportCache) Get(ctx context.Context, key string) (dto.PnLReportDTO, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return dto.PnLReportDTO{}, false, nil
		}
		return dto.PnLReportDTO{}, false, fmt.Errorf("leyendo cache: %w", err)
	}
	var report dto.PnLReportDTO
	if err := json.Unmarshal(raw, &report); err != nil {
		// Payload corrupto: se trata como miss y se deja expirar
		return dto.PnLReportDTO{}, false, nil
	}
	return report, true, nil
}

// Set implementa pnl.ReportCache.
func (c *ReportCache) Set(ctx context.Context, key string, report dto.PnLReportDTO) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serializando reporte: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("guardando en cache: %w", err)
	}
	return nil
}

// InvalidateAll implementa pnl.ReportCache: recorre las llaves del prefijo
// con SCAN (no KEYS, que bloquea el servidor) y las borra por lotes.
func (c *ReportCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("invalidando cache: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("recorriendo llaves: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("invalidando cache: %w", err)
		}
	}
	return nil
}

// Close cierra la conexión.
func (c *ReportCache) Close() error { return c.client.Close() }
