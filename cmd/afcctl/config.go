package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/afcctl/internal/afc"
	"github.com/danmuck/afcctl/internal/protocol/frame"
)

const envMaxFrameSize = "AFCCTL_MAX_FRAME_SIZE"

type fileConfig struct {
	Address          string `toml:"address"`
	RequestTimeout   string `toml:"request_timeout"`
	RequestTimeoutMS int64  `toml:"request_timeout_ms"`
	MaxFrameSize     int64  `toml:"max_frame_size"`
}

type clientConfig struct {
	Address        string
	RequestTimeout time.Duration
	MaxFrameBytes  uint64
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		RequestTimeout: afc.DefaultRequestTimeout,
		MaxFrameBytes:  frame.DefaultLimits().MaxFrameBytes,
	}
}

func loadClientConfig(path string) (clientConfig, error) {
	cfg := defaultClientConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return clientConfig{}, fmt.Errorf("load afcctl config: %w", err)
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}

	if meta.IsDefined("request_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RequestTimeout))
		if err != nil {
			return clientConfig{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if meta.IsDefined("request_timeout_ms") {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutMS) * time.Millisecond
	}

	if meta.IsDefined("max_frame_size") {
		if raw.MaxFrameSize <= 0 {
			return clientConfig{}, fmt.Errorf("max_frame_size must be positive, got %d", raw.MaxFrameSize)
		}
		cfg.MaxFrameBytes = uint64(raw.MaxFrameSize)
	}

	return cfg, nil
}

// applyEnvOverrides folds process-environment tuning into cfg. A value
// that does not parse as a positive integer leaves the default in place.
func applyEnvOverrides(cfg *clientConfig) {
	raw := strings.TrimSpace(os.Getenv(envMaxFrameSize))
	if raw == "" {
		return
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return
	}
	cfg.MaxFrameBytes = uint64(v)
}

func (cfg clientConfig) connConfig() afc.ConnConfig {
	return afc.ConnConfig{
		Limits:         frame.Limits{MaxFrameBytes: cfg.MaxFrameBytes},
		RequestTimeout: cfg.RequestTimeout,
	}
}
