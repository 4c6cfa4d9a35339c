package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"credex/internal/presentationrequest/metrics"
	"credex/internal/presentationrequest/models"
	id "credex/pkg/domain"
)

const redisKeyPrefix = "presentation_request:"

// RedisCache fronts a backing Store with a read-through Redis cache.
// Redis failures never fail a call: reads fall back to the backing store
// and writes skip the cache. Both are counted and logged.
type RedisCache struct {
	backing  Store
	client   redis.Cmdable
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewRedisCache wraps backing. metrics may be nil.
func NewRedisCache(backing Store, client redis.Cmdable, cacheTTL time.Duration, m *metrics.Metrics, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		backing:  backing,
		client:   client,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// cachedRecord is the Redis form of a Record. Body is []byte so it is base64
// encoded and survives the round trip byte for byte.
type cachedRecord struct {
	ID            string     `json:"id"`
	VerifierDID   string     `json:"verifierDid"`
	HolderAppUUID string     `json:"holderAppUuid"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Deeplink      string     `json:"deeplink"`
	QRCode        string     `json:"qrCode"`
	Body          []byte     `json:"body"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (c *RedisCache) Save(ctx context.Context, record *models.Record) error {
	if err := c.backing.Save(ctx, record); err != nil {
		return err
	}
	c.put(ctx, record)
	return nil
}

func (c *RedisCache) Get(ctx context.Context, prID id.PresentationRequestID) (*models.Record, error) {
	data, err := c.client.Get(ctx, redisKey(prID)).Bytes()
	switch {
	case err == nil:
		record, decodeErr := decodeCached(data)
		if decodeErr == nil {
			c.record(metrics.CacheHit)
			return record, nil
		}
		c.record(metrics.CacheError)
		c.logger.WarnContext(ctx, "discarding undecodable cache entry", "error", decodeErr, "presentation_request_id", prID.String())
	case errors.Is(err, redis.Nil):
		c.record(metrics.CacheMiss)
	default:
		c.record(metrics.CacheError)
		c.logger.WarnContext(ctx, "presentation request cache unavailable", "error", err)
	}

	record, err := c.backing.Get(ctx, prID)
	if err != nil {
		return nil, err
	}
	c.put(ctx, record)
	return record, nil
}

func (c *RedisCache) put(ctx context.Context, record *models.Record) {
	ttl := c.ttl(record)
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(cachedRecord{
		ID:            record.ID.String(),
		VerifierDID:   record.VerifierDID.String(),
		HolderAppUUID: record.HolderAppUUID,
		ExpiresAt:     record.ExpiresAt,
		Deeplink:      record.Deeplink,
		QRCode:        record.QRCode,
		Body:          record.Body,
		CreatedAt:     record.CreatedAt,
	})
	if err != nil {
		c.record(metrics.CacheError)
		return
	}
	if err := c.client.Set(ctx, redisKey(record.ID), payload, ttl).Err(); err != nil {
		c.record(metrics.CacheError)
		c.logger.WarnContext(ctx, "failed to cache presentation request", "error", err)
	}
}

// ttl is CACHE_TTL capped by the time left before the request expires.
func (c *RedisCache) ttl(record *models.Record) time.Duration {
	ttl := c.cacheTTL
	if record.ExpiresAt != nil {
		if left := record.ExpiresAt.Sub(c.now()); left < ttl {
			ttl = left
		}
	}
	return ttl
}

func (c *RedisCache) record(result string) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(result)
	}
}

func decodeCached(data []byte) (*models.Record, error) {
	var cr cachedRecord
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("decode presentation request cache: %w", err)
	}
	prID, err := id.ParsePresentationRequestID(cr.ID)
	if err != nil {
		return nil, err
	}
	return &models.Record{
		ID:            prID,
		VerifierDID:   id.DID(cr.VerifierDID),
		HolderAppUUID: cr.HolderAppUUID,
		ExpiresAt:     cr.ExpiresAt,
		Deeplink:      cr.Deeplink,
		QRCode:        cr.QRCode,
		Body:          cr.Body,
		CreatedAt:     cr.CreatedAt,
	}, nil
}

func redisKey(prID id.PresentationRequestID) string {
	return redisKeyPrefix + prID.String()
}
