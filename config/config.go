package config

import (
	"flag"
	"os"
	"strconv"
)

const (
	defaultPort       = 8081
	defaultSTUNServer = "stun:stun.l.google.com:19302"
)

// Config holds the process-wide settings. The core protocol in spec has no
// flags at all — the signaling port is a constant — but every literal here
// stays overridable via flag/env so the binary can be run against a
// different STUN server or port without a recompile.
type Config struct {
	Port       int
	STUNServer string
}

func Parse() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Port, "port", envInt("PORT", defaultPort), "signaling WebSocket port")
	flag.StringVar(&cfg.STUNServer, "stun-server", envStr("STUN_SERVER", defaultSTUNServer), "STUN server URL")
	flag.Parse()

	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
