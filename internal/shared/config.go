package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		DSN string `yaml:"dsn"` // "./docktor.db"
	} `yaml:"database"`

	Rules struct {
		Disabled          []string `yaml:"disabled"`
		SeverityThreshold string   `yaml:"severity_threshold"` // "info"|"warning"|"error"
		Packs             []string `yaml:"packs"`              // YAML rule pack paths
		Registry          struct {
			Enabled   bool          `yaml:"enabled"`
			Timeout   time.Duration `yaml:"timeout"`
			CacheSize int           `yaml:"cache_size"`
		} `yaml:"registry"`
	} `yaml:"rules"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
		Format string `yaml:"format"`  // "text"|"json"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "text"|"json"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.DSN = "./docktor.db"
	c.Rules.SeverityThreshold = "info"
	c.Rules.Registry.Timeout = 2 * time.Second
	c.Rules.Registry.CacheSize = 64
	c.Reporting.OutDir = "./reports"
	c.Reporting.Format = "text"
	c.Logging.Format = "text"
	c.Logging.Level = "info"
	return c
}

// LoadConfig layers defaults, an optional YAML file, a local .env, and
// DOCKTOR_* environment overrides, in that order.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	_ = godotenv.Load() // best-effort; absence of .env is normal

	if v := os.Getenv("DOCKTOR_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DOCKTOR_SEVERITY_THRESHOLD"); v != "" {
		c.Rules.SeverityThreshold = v
	}
	if v := os.Getenv("DOCKTOR_REGISTRY_CHECK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Rules.Registry.Enabled = b
		}
	}
	if v := os.Getenv("DOCKTOR_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("DOCKTOR_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("DOCKTOR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}
