// Package cache implementa un caché multi-nivel (L1 memoria, L2 Redis) para
// las lecturas del catálogo externo de ítems. El catálogo es dato de solo
// lectura para este núcleo, así que cachearlo no compromete ninguna garantía:
// las lecturas de libro y proyección nunca pasan por aquí.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ItemMasterRepository = (*ItemMasterCache)(nil)

const redisKeyPrefix = "kardex:item:"

type l1Entry struct {
	item      entity.ItemMaster
	expiresAt time.Time
}

// ItemMasterCache decora un ItemMasterRepository con caché L1 en memoria y
// L2 en Redis. redisClient puede ser nil: queda solo el L1.
type ItemMasterCache struct {
	next        repository.ItemMasterRepository
	redisClient *redis.Client
	ttl         time.Duration
	log         zerolog.Logger

	l1Mu sync.RWMutex
	l1   map[string]l1Entry
}

// NewItemMasterCache construye el decorador de caché.
func NewItemMasterCache(next repository.ItemMasterRepository, redisClient *redis.Client, ttl time.Duration, log zerolog.Logger) *ItemMasterCache {
	return &ItemMasterCache{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
		log:         log,
		l1:          make(map[string]l1Entry),
	}
}

// GetByID busca el ítem en L1, luego L2 y por último el catálogo. Los misses
// del catálogo (ítem inexistente) no se cachean.
func (c *ItemMasterCache) GetByID(ctx context.Context, id string) (*entity.ItemMaster, error) {
	if item := c.getL1(id); item != nil {
		return item, nil
	}

	if c.redisClient != nil {
		if item := c.getL2(ctx, id); item != nil {
			c.putL1(id, *item)
			return item, nil
		}
	}

	item, err := c.next.GetByID(ctx, id)
	if err != nil || item == nil {
		return item, err
	}

	c.putL1(id, *item)
	if c.redisClient != nil {
		c.putL2(ctx, id, item)
	}
	return item, nil
}

// Invalidate expulsa un ítem de ambos niveles (por si el catálogo avisa de cambios).
func (c *ItemMasterCache) Invalidate(ctx context.Context, id string) {
	c.l1Mu.Lock()
	delete(c.l1, id)
	c.l1Mu.Unlock()
	if c.redisClient != nil {
		if err := c.redisClient.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
			c.log.Warn().Err(err).Str("item_id", id).Msg("invalidar caché L2")
		}
	}
}

func (c *ItemMasterCache) getL1(id string) *entity.ItemMaster {
	c.l1Mu.RLock()
	entry, ok := c.l1[id]
	c.l1Mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	item := entry.item
	return &item
}

func (c *ItemMasterCache) putL1(id string, item entity.ItemMaster) {
	c.l1Mu.Lock()
	c.l1[id] = l1Entry{item: item, expiresAt: time.Now().Add(c.ttl)}
	c.l1Mu.Unlock()
}

func (c *ItemMasterCache) getL2(ctx context.Context, id string) *entity.ItemMaster {
	data, err := c.redisClient.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("item_id", id).Msg("leer caché L2")
		}
		return nil
	}
	var item entity.ItemMaster
	if err := json.Unmarshal(data, &item); err != nil {
		c.log.Warn().Err(err).Str("item_id", id).Msg("deserializar caché L2")
		return nil
	}
	return &item
}

func (c *ItemMasterCache) putL2(ctx context.Context, id string, item *entity.ItemMaster) {
	data, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := c.redisClient.Set(ctx, redisKeyPrefix+id, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("item_id", id).Msg("escribir caché L2")
	}
}
