package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftwall/driftwall/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "driftwall.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), true)
	if err != nil {
		t.Fatalf("optional missing file should not error: %v", err)
	}
	if cfg.Server.Listen != ":8176" {
		t.Errorf("should fall back to default listen, got %q", cfg.Server.Listen)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("should fall back to file cache, got %q", cfg.Cache.Backend)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), false)
	if err == nil {
		t.Fatal("required missing file should error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("should carry invalid_config code, got %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[photos]
dir = "/photos"
filter = "travel"

[server]
listen = ":9000"
tick_ms = 33

[cache]
backend = "redis"
redis_addr = "redis:6379"
key_prefix = "wall:"

[solver]
world_size = 4200
seed = 9
`)

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Photos.Dir != "/photos" || cfg.Photos.Filter != "travel" {
		t.Errorf("photos section not applied: %+v", cfg.Photos)
	}
	if cfg.Server.Listen != ":9000" || cfg.Server.TickMS != 33 {
		t.Errorf("server section not applied: %+v", cfg.Server)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache section not applied: %+v", cfg.Cache)
	}
	if cfg.Cache.KeyPrefix != "wall:" {
		t.Errorf("key prefix not applied: %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Solver.WorldSize != 4200 || cfg.Solver.Seed != 9 {
		t.Errorf("solver section not applied: %+v", cfg.Solver)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[photos]
dir = "/photos"
`)

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.TickMS != 16 {
		t.Errorf("unset tick_ms should keep default, got %d", cfg.Server.TickMS)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("unset redis_addr should keep default, got %q", cfg.Cache.RedisAddr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"none backend", func(c *Config) { c.Cache.Backend = CacheBackendNone }, false},
		{"zero tick", func(c *Config) { c.Server.TickMS = 0 }, true},
		{"empty listen", func(c *Config) { c.Server.Listen = "" }, true},
		{"filter with separator", func(c *Config) { c.Photos.Filter = "a/b" }, true},
		{"plain filter", func(c *Config) { c.Photos.Filter = "travel" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[server\nlisten=")
	if _, err := Load(path, false); err == nil {
		t.Fatal("malformed TOML should error")
	}
}
