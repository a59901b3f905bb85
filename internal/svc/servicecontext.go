package svc

import (
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"

	"cryptohealth-api/internal/cache"
	"cryptohealth-api/internal/config"
	"cryptohealth-api/internal/persistence/snapshot"
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/market"
)

type ServiceContext struct {
	Config config.Config

	Cache     *cache.TTLCache
	TTL       cache.TTLSet
	CoinGecko *coingecko.Client
	// Market is the upstream seen by the logic layer; tests may swap it.
	Market market.Provider

	// Snapshots is nil unless Redis is configured.
	Snapshots snapshot.Store

	StartedAt time.Time
	Now       func() time.Time
}

func NewServiceContext(c config.Config) *ServiceContext {
	ttl := cache.NewTTLSet(c.Cache)
	cacheOpts := []cache.Option{}
	if c.Cache.Coalesce {
		cacheOpts = append(cacheOpts, cache.WithCoalescing())
	}
	tc := cache.NewTTLCache(ttl.Default, cacheOpts...)

	clientOpts := []coingecko.Option{coingecko.WithCache(tc, ttl)}
	if c.Upstream.Value == nil {
		clientOpts = append(clientOpts, coingecko.WithTimeout(c.RequestTimeout()))
	}
	client := coingecko.NewClientFromConfig(c.Upstream.Value, clientOpts...)

	svc := &ServiceContext{
		Config:    c,
		Cache:     tc,
		TTL:       ttl,
		CoinGecko: client,
		Market:    client,
		StartedAt: time.Now(),
		Now:       time.Now,
	}

	// Test environments never touch a shared snapshot store.
	if c.SnapshotEnabled() && !c.IsTestEnv() {
		rds := redis.MustNewRedis(c.Redis)
		svc.Snapshots = snapshot.NewRedisStore(rds, time.Duration(c.Snapshot.MaxAge)*time.Second)
		logx.Infof("snapshot store enabled: redis=%s maxAge=%ds", c.Redis.Host, c.Snapshot.MaxAge)
	}
	return svc
}

// Uptime reports how long the service has been running.
func (s *ServiceContext) Uptime() time.Duration {
	return s.Now().Sub(s.StartedAt)
}
