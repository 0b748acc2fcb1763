package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./lracheck.db"
	} `yaml:"database"`

	Analysis struct {
		Paths                []string `yaml:"paths"`                    // ["./build/descriptors"]
		FailWhenPathNotExist bool     `yaml:"fail_when_path_not_exist"` // false
		Parallelism          int      `yaml:"parallelism"`              // 1 = sequential
		DisabledRules        []string `yaml:"disabled_rules"`           // ["WRONG-PLAIN-SIGNATURE"]
	} `yaml:"analysis"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "auto"|"json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	Server struct {
		Addr           string   `yaml:"addr"`            // ":8080"
		SessionHours   int      `yaml:"session_hours"`   // 12
		AllowedOrigins []string `yaml:"allowed_origins"` // CORS; empty = same-origin only
	} `yaml:"server"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./lracheck.db"
	c.Analysis.Parallelism = 1
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "auto"
	c.Logging.Level = "info"
	c.Server.Addr = ":8080"
	c.Server.SessionHours = 12
	return c
}

// LoadConfig reads path (if any) over the defaults, then applies LRACHECK_*
// environment overrides. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, fmt.Errorf("config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return c, fmt.Errorf("config %s: %w", path, err)
		}
	}
	applyEnv(&c)
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

// validate rejects settings the binary cannot honor. SQLite is the only
// storage backend.
func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "", "sqlite", "sqlite3":
		c.Database.Driver = "sqlite"
	default:
		return fmt.Errorf("config: unsupported database driver %q (only sqlite)", c.Database.Driver)
	}
	return nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("LRACHECK_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("LRACHECK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("LRACHECK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LRACHECK_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("LRACHECK_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Parallelism = n
		}
	}
	if v := os.Getenv("LRACHECK_FAIL_WHEN_PATH_NOT_EXIST"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Analysis.FailWhenPathNotExist = b
		}
	}
	if v := os.Getenv("LRACHECK_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LRACHECK_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
