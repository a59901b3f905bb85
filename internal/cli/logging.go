package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"cryptohealth-api/internal/cache"
	"cryptohealth-api/internal/config"
	"cryptohealth-api/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	ttl := cache.NewTTLSet(cfg.Cache)
	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Default coins: %s", strings.Join(cfg.DefaultCoins, ",")),
		fmt.Sprintf("Vs currency: %s", cfg.DefaultVsCurrency),
		fmt.Sprintf("Max coins per request: %d", cfg.MaxCoinsPerRequest),
		fmt.Sprintf("Request timeout: %s", cfg.RequestTimeout()),
		fmt.Sprintf("Cache TTL (default/global/trending/details): %s / %s / %s / %s",
			ttl.Default, ttl.Global, ttl.Trending, ttl.Details),
		fmt.Sprintf("Cache coalescing: %t", cfg.Cache.Coalesce),
		fmt.Sprintf("Snapshot store: %s", snapshotState(cfg)),
		sectionLine("Upstream config", cfg.Upstream),
	}
	if up := cfg.Upstream.Value; up != nil {
		lines = append(lines,
			fmt.Sprintf("Upstream base URL: %s", up.BaseURL),
			fmt.Sprintf("Upstream API key: %s", presence(up.APIKey != "")),
		)
	}
	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func snapshotState(cfg *config.Config) string {
	switch {
	case !cfg.SnapshotEnabled():
		return "not configured"
	case cfg.IsTestEnv():
		return "disabled in test env"
	default:
		return fmt.Sprintf("redis %s (max age %ds)", cfg.Redis.Host, cfg.Snapshot.MaxAge)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
