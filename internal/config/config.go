package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"

	"cryptohealth-api/internal/cache"
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/confkit"
)

// DefaultCoins is the tracked list used when neither the file nor the
// environment names one.
var DefaultCoins = []string{
	"bitcoin", "ethereum", "solana", "binancecoin",
	"cardano", "xrp", "dogecoin", "polkadot",
}

const defaultSnapshotMaxAge = 7 * 24 * 60 * 60

type SnapshotConf struct {
	// MaxAge bounds how long a stored response may be served, in seconds.
	MaxAge int `json:",default=604800"`
}

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod
	Env string `json:",default=dev"`

	DefaultCoins       []string `json:",optional"`
	DefaultVsCurrency  string   `json:",default=usd"`
	MaxCoinsPerRequest int      `json:",default=10"`
	RequestTimeoutMs   int      `json:",default=12000"`

	Cache    cache.Conf      `json:",optional"`
	Redis    redis.RedisConf `json:",optional"`
	Snapshot SnapshotConf    `json:",optional"`

	Upstream confkit.Section[coingecko.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test"
}

// SnapshotEnabled reports whether a Redis backend is configured for the
// response snapshot store.
func (c *Config) SnapshotEnabled() bool {
	return strings.TrimSpace(c.Redis.Host) != ""
}

// RequestTimeout returns the per-call upstream deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = confkit.BaseDir(absPath)

	if err := cfg.applyEnvOverrides(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides lets the plain deployment variables win over the file.
func (c *Config) applyEnvOverrides(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	atoi := func(key string, dst *int) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s must be an integer, got %q", key, v)
		}
		*dst = n
		return nil
	}

	if err := atoi("PORT", &c.Port); err != nil {
		return err
	}
	if err := atoi("CACHE_TTL_SECONDS", &c.Cache.TTL); err != nil {
		return err
	}
	if err := atoi("MAX_COINS_PER_REQUEST", &c.MaxCoinsPerRequest); err != nil {
		return err
	}
	if err := atoi("REQUEST_TIMEOUT_MS", &c.RequestTimeoutMs); err != nil {
		return err
	}
	if v, ok := get("DEFAULT_COINS"); ok {
		c.DefaultCoins = ParseIDs(v)
	}
	if v, ok := get("DEFAULT_VS_CURRENCY"); ok {
		c.DefaultVsCurrency = v
	}

	c.DefaultVsCurrency = strings.ToLower(strings.TrimSpace(c.DefaultVsCurrency))
	if c.Snapshot.MaxAge == 0 {
		c.Snapshot.MaxAge = defaultSnapshotMaxAge
	}
	if len(c.DefaultCoins) == 0 {
		c.DefaultCoins = append([]string(nil), DefaultCoins...)
	} else {
		c.DefaultCoins = normaliseIDs(c.DefaultCoins)
	}
	return nil
}

// hydrateSections loads the upstream section file, or falls back to
// defaults, then layers the main config on top.
func (c *Config) hydrateSections() error {
	if err := c.Upstream.Hydrate(c.baseDir, coingecko.LoadConfig); err != nil {
		return fmt.Errorf("load upstream config: %w", err)
	}
	return c.resolveUpstream(os.LookupEnv)
}

func (c *Config) resolveUpstream(lookup func(string) (string, bool)) error {
	if c.Upstream.Value == nil {
		c.Upstream.Value = coingecko.DefaultConfig()
	}
	up := c.Upstream.Value

	v, ok := lookup("REQUEST_TIMEOUT_MS")
	timeoutFromEnv := ok && strings.TrimSpace(v) != ""
	if up.TimeoutRaw == "" || timeoutFromEnv {
		up.Timeout = c.RequestTimeout()
	}
	if v, ok := lookup("COINGECKO_BASE_URL"); ok && strings.TrimSpace(v) != "" {
		up.BaseURL = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	return nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "dev"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if c.DefaultVsCurrency == "" {
		return errors.New("config: defaultVsCurrency is required")
	}
	if c.MaxCoinsPerRequest <= 0 {
		return errors.New("config: maxCoinsPerRequest must be positive")
	}
	if c.RequestTimeoutMs <= 0 {
		return errors.New("config: requestTimeoutMs must be positive")
	}
	if c.Cache.TTL < 0 || c.Cache.GlobalTTL < 0 || c.Cache.TrendingTTL < 0 || c.Cache.DetailsTTL < 0 {
		return errors.New("config: cache ttl values cannot be negative")
	}
	if c.SnapshotEnabled() && c.Snapshot.MaxAge <= 0 {
		return errors.New("config: snapshot.maxAge must be positive when redis is configured")
	}
	if c.Upstream.Value != nil {
		if err := c.Upstream.Value.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}

// ParseIDs splits a comma separated coin id list, lower-cases entries and
// drops blanks.
func ParseIDs(csv string) []string {
	return normaliseIDs(strings.Split(csv, ","))
}

func normaliseIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.ToLower(strings.TrimSpace(id)); id != "" {
			out = append(out, id)
		}
	}
	return out
}
