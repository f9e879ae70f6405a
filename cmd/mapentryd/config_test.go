package main

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	withDefaults := func(f func(*Config)) Config {
		cfg := defaultConfig()
		f(&cfg)
		return cfg
	}

	for _, tt := range []struct {
		name string
		args []string
		env  map[string]string
		want Config
	}{
		{
			name: "short flags",
			args: []string{"-r", "http://localhost:5000", "-p", "8080"},
			want: withDefaults(func(c *Config) {
				c.Root = "http://localhost:5000"
				c.Port = 8080
			}),
		},
		{
			name: "long flags",
			args: []string{"-root", "https://cts2.example.org", "-port", "9000", "-map-version", "2013AB", "-malformed", "fail", "-log-format", "json"},
			want: withDefaults(func(c *Config) {
				c.Root = "https://cts2.example.org"
				c.Port = 9000
				c.MapVersion = "2013AB"
				c.Malformed = "fail"
				c.LogFormat = "json"
			}),
		},
		{
			name: "environment",
			env: map[string]string{
				"MAPENTRY_ROOT":             "https://cts2.example.org",
				"MAPENTRY_PORT":             "7000",
				"MAPENTRY_DATA":             "s3://umls/cuiToSnomedCodes.out",
				"MAPENTRY_S3_ENDPOINT":      "http://minio:9000",
				"MAPENTRY_S3_PATH_STYLE":    "true",
				"MAPENTRY_SHUTDOWN_TIMEOUT": "3s",
			},
			want: withDefaults(func(c *Config) {
				c.Root = "https://cts2.example.org"
				c.Port = 7000
				c.Data = "s3://umls/cuiToSnomedCodes.out"
				c.S3Endpoint = "http://minio:9000"
				c.S3PathStyle = true
				c.ShutdownTimeout = 3 * time.Second
			}),
		},
		{
			name: "flags override environment",
			args: []string{"-p", "8080"},
			env: map[string]string{
				"MAPENTRY_ROOT": "https://cts2.example.org",
				"MAPENTRY_PORT": "7000",
			},
			want: withDefaults(func(c *Config) {
				c.Root = "https://cts2.example.org"
				c.Port = 8080
			}),
		},
		{
			name: "SQL only",
			args: []string{"-r", "http://localhost:5000", "-data", "", "-sql-driver", "pgx", "-sql-dsn", "postgres://localhost/umls"},
			want: withDefaults(func(c *Config) {
				c.Root = "http://localhost:5000"
				c.Data = ""
				c.SQLDriver = "pgx"
				c.SQLDSN = "postgres://localhost/umls"
			}),
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseConfig(tt.args, lookupFrom(tt.env), io.Discard)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{name: "missing root", args: nil, wantErr: "server root is required"},
		{name: "port out of range", args: []string{"-r", "x", "-p", "70000"}, wantErr: "port out of range"},
		{name: "unknown policy", args: []string{"-r", "x", "-malformed", "ignore"}, wantErr: "unknown malformed line policy"},
		{name: "no source", args: []string{"-r", "x", "-data", ""}, wantErr: "no source configured"},
		{name: "driver without dsn", args: []string{"-r", "x", "-sql-driver", "sqlite"}, wantErr: "-sql-dsn is required"},
		{name: "unknown log format", args: []string{"-r", "x", "-log-format", "xml"}, wantErr: "unknown log format"},
		{name: "extra arguments", args: []string{"-r", "x", "serve"}, wantErr: "unexpected arguments: serve"},
		{name: "invalid environment", env: map[string]string{"MAPENTRY_PORT": "http"}, wantErr: "MAPENTRY_PORT"},
		{name: "unknown flag", args: []string{"-verbose"}, wantErr: "flag provided but not defined"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseConfig(tt.args, lookupFrom(tt.env), io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("parseConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	t.Parallel()

	var stderr strings.Builder
	_, err := parseConfig([]string{"-h"}, lookupFrom(nil), &stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("parseConfig() error = %v, want %v", err, flag.ErrHelp)
	}
	if !strings.Contains(stderr.String(), "-root") {
		t.Errorf("usage does not mention -root:\n%s", stderr.String())
	}
}
