package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, errors.Wrap(mc.Ping(), "ping memcached")
}

func (mc *MemcacheClient) Get(key string) ([]byte, error) {
	item, err := mc.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "get "+key)
	}
	return item.Value, nil
}

func (mc *MemcacheClient) Set(key string, value []byte, ttl time.Duration) error {
	logger.Debug("cache set", zap.String("key", key))
	return mc.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl / time.Second),
	})
}

func (mc *MemcacheClient) Delete(keys ...string) error {
	logger.Debug("invalidate cache", zap.Strings("keys", keys))
	for _, key := range keys {
		err := mc.client.Delete(key)
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
