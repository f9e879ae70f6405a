package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/karupanerura/cts2-mapentry/cts2"
	"github.com/karupanerura/cts2-mapentry/internal/envconf"
	"github.com/karupanerura/cts2-mapentry/source/flatfile"
	"github.com/karupanerura/cts2-mapentry/source/sqltable"
)

// Config is the process configuration.
// Values come from flags, then MAPENTRY_* environment variables, then defaults.
type Config struct {
	Root       string `env:"MAPENTRY_ROOT"`
	Host       string `env:"MAPENTRY_HOST"`
	Port       int    `env:"MAPENTRY_PORT"`
	MapVersion string `env:"MAPENTRY_MAP_VERSION"`

	Data      string `env:"MAPENTRY_DATA"`
	Malformed string `env:"MAPENTRY_MALFORMED"`

	SQLDriver string `env:"MAPENTRY_SQL_DRIVER"`
	SQLDSN    string `env:"MAPENTRY_SQL_DSN"`
	SQLQuery  string `env:"MAPENTRY_SQL_QUERY"`

	S3Region    string `env:"MAPENTRY_S3_REGION"`
	S3Endpoint  string `env:"MAPENTRY_S3_ENDPOINT"`
	S3PathStyle bool   `env:"MAPENTRY_S3_PATH_STYLE"`

	LogFormat       string        `env:"MAPENTRY_LOG_FORMAT"`
	ShutdownTimeout time.Duration `env:"MAPENTRY_SHUTDOWN_TIMEOUT"`
}

func defaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            5000,
		MapVersion:      cts2.DefaultMapVersion,
		Data:            "./data/cuiToSnomedCodes.out",
		Malformed:       flatfile.SkipMalformed.String(),
		SQLQuery:        sqltable.DefaultQuery,
		S3Region:        "us-east-1",
		LogFormat:       "text",
		ShutdownTimeout: 10 * time.Second,
	}
}

// parseConfig builds the configuration from args and the environment.
func parseConfig(args []string, lookup envconf.LookupFunc, stderr io.Writer) (Config, error) {
	cfg := defaultConfig()
	if err := envconf.Bind(&cfg, lookup); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("mapentryd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Root, "r", cfg.Root, "server root (shorthand)")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "server root base URL used in resource URIs and redirects")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "listen host")
	fs.IntVar(&cfg.Port, "p", cfg.Port, "server port (shorthand)")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	fs.StringVar(&cfg.MapVersion, "map-version", cfg.MapVersion, "map version token")
	fs.StringVar(&cfg.Data, "data", cfg.Data, "mapping file path or s3://bucket/key; empty disables the file source")
	fs.StringVar(&cfg.Malformed, "malformed", cfg.Malformed, "malformed line policy: skip or fail")
	fs.StringVar(&cfg.SQLDriver, "sql-driver", cfg.SQLDriver, "database driver for the SQL source: sqlite or pgx")
	fs.StringVar(&cfg.SQLDSN, "sql-dsn", cfg.SQLDSN, "data source name for the SQL source")
	fs.StringVar(&cfg.SQLQuery, "sql-query", cfg.SQLQuery, "query returning (cui, code) rows")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "S3 endpoint (e.g. MinIO)")
	fs.BoolVar(&cfg.S3PathStyle, "s3-path-style", cfg.S3PathStyle, "use path-style S3 addressing")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("server root is required (-root or MAPENTRY_ROOT)"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.MapVersion == "" {
		errs = append(errs, errors.New("map version must not be empty"))
	}
	if _, err := flatfile.ParsePolicy(c.Malformed); err != nil {
		errs = append(errs, err)
	}
	if c.Data == "" && c.SQLDriver == "" {
		errs = append(errs, errors.New("no source configured: set -data or -sql-driver"))
	}
	if c.SQLDriver != "" && c.SQLDSN == "" {
		errs = append(errs, errors.New("-sql-dsn is required with -sql-driver"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("negative shutdown timeout: %s", c.ShutdownTimeout))
	}
	return errors.Join(errs...)
}

func (c Config) malformedPolicy() flatfile.Policy {
	p, _ := flatfile.ParsePolicy(c.Malformed)
	return p
}
