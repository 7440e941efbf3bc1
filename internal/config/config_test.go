package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Search.Debounce != 300*time.Millisecond || cfg.Cache.TTL != 30*time.Second || cfg.Cache.MaxStaleness != time.Minute {
		t.Fatalf("unexpected timing defaults %+v %+v", cfg.Search, cfg.Cache)
	}
	if cfg.Countdown.Interval != time.Second || cfg.Countdown.EndingThreshold != time.Hour {
		t.Fatalf("unexpected countdown defaults %+v", cfg.Countdown)
	}
	if cfg.Bidding.Increment != 50 || cfg.ServerAddress() != ":8080" {
		t.Fatalf("unexpected defaults %+v %s", cfg.Bidding, cfg.ServerAddress())
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(CacheBackend, "memory")
	t.Setenv(SearchDebounce, "150ms")
	t.Setenv(CORSAllowedOrigins, "http://localhost:3000, https://motoauto.ch ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cache.Backend != "memory" || cfg.Search.Debounce != 150*time.Millisecond {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Cache, cfg.Search)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://motoauto.ch" {
		t.Fatalf("unexpected origins %q", cfg.CORS.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"port", func(c *Config) { c.Server.Port = "" }},
		{"increment", func(c *Config) { c.Bidding.Increment = 0 }},
		{"interval", func(c *Config) { c.Countdown.Interval = 0 }},
		{"debounce", func(c *Config) { c.Search.Debounce = -time.Millisecond }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
