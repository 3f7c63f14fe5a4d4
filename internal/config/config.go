package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the directory layout and conversion policy for one invocation.
type Config struct {
	Root       string `env:"TRA_ROOT"        envDefault:"tra"`
	SourceLang string `env:"TRA_SOURCE_LANG" envDefault:"English"`
	TargetLang string `env:"TRA_TARGET_LANG" envDefault:"French"`

	WorkingPODir    string `env:"TRA_WORKING_PO_DIR"    envDefault:"Working_po"`
	FinishedPODir   string `env:"TRA_FINISHED_PO_DIR"   envDefault:"Finished_po"`
	WorkingJSONDir  string `env:"TRA_WORKING_JSON_DIR"  envDefault:"Working_json"`
	FinishedJSONDir string `env:"TRA_FINISHED_JSON_DIR" envDefault:"Finished_json"`
	FinishedTRADir  string `env:"TRA_FINISHED_TRA_DIR"  envDefault:"Finished_tra"`

	// SourceEncoding is assumed when reading indexed-text files.
	SourceEncoding string `env:"TRA_SOURCE_ENCODING" envDefault:"utf-8"`
	// TargetEncoding is assumed when reading target-language indexed-text
	// files; empty means the same as SourceEncoding.
	TargetEncoding string `env:"TRA_TARGET_ENCODING"`
	// OutputEncoding is mandated for the finished target-language files.
	OutputEncoding string `env:"TRA_OUTPUT_ENCODING" envDefault:"windows-1252"`

	FixEncoding    bool   `env:"TRA_FIX_ENCODING"    envDefault:"false"`
	FallbackSource bool   `env:"TRA_FALLBACK_SOURCE" envDefault:"false"`
	RangeCompare   string `env:"TRA_RANGE_COMPARE"   envDefault:"interval"`
	WorkerCount    int    `env:"TRA_WORKER_COUNT"    envDefault:"1"`
	LogLevel       string `env:"TRA_LOG_LEVEL"       envDefault:"info"`
}

// Load reads an optional .env file, then the TRA_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return cfg, nil
}

// TargetTRAEncoding returns the encoding declared for target-language
// indexed-text files.
func (c *Config) TargetTRAEncoding() string {
	if c.TargetEncoding != "" {
		return c.TargetEncoding
	}
	return c.SourceEncoding
}

// SourceDir is the directory of source-language indexed-text files.
func (c *Config) SourceDir() string { return filepath.Join(c.Root, c.SourceLang) }

// TargetDir is the directory of target-language indexed-text files.
func (c *Config) TargetDir() string { return filepath.Join(c.Root, c.TargetLang) }

// WorkingDir is where forward conversions of the given format are written.
func (c *Config) WorkingDir(format string) string {
	if format == "json" {
		return filepath.Join(c.Root, c.WorkingJSONDir)
	}
	return filepath.Join(c.Root, c.WorkingPODir)
}

// FinishedDir is where completed translations of the given format are read from.
func (c *Config) FinishedDir(format string) string {
	if format == "json" {
		return filepath.Join(c.Root, c.FinishedJSONDir)
	}
	return filepath.Join(c.Root, c.FinishedPODir)
}

// FinishedTRAPath returns the directory receiving converted indexed-text files.
func (c *Config) FinishedTRAPath() string { return filepath.Join(c.Root, c.FinishedTRADir) }

// Dirs lists every directory a conversion may read from or write to.
func (c *Config) Dirs() []string {
	return []string{
		c.SourceDir(),
		c.TargetDir(),
		c.WorkingDir("po"),
		c.FinishedDir("po"),
		c.WorkingDir("json"),
		c.FinishedDir("json"),
		c.FinishedTRAPath(),
	}
}
