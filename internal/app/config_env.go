package app

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This lets env take precedence over
// a config file while flags remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := listenAddrFromEnv(); v != "" { cfg.Addr = v }
    if v := os.Getenv("WIKI_BASE_URL"); v != "" { cfg.WikiBaseURL = v }
    if v := os.Getenv("WIKI_USER_AGENT"); v != "" { cfg.UserAgent = v }
    if v := os.Getenv("CACHE_DIR"); v != "" { cfg.CacheDir = v }
    if v := strings.TrimSpace(os.Getenv("HTTP_MAX_ATTEMPTS")); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            cfg.HTTPMaxAttempts = n
        }
    }
    if s := os.Getenv("HTTP_TIMEOUT"); s != "" {
        if d, err := time.ParseDuration(s); err == nil { cfg.HTTPTimeout = d }
    }
    if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
        if d, err := time.ParseDuration(s); err == nil { cfg.CacheMaxAge = d }
    }

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.Verbose, "VERBOSE")
    setBool(&cfg.CacheClear, "CACHE_CLEAR")
    setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}

// listenAddrFromEnv honours LISTEN_ADDR, then a bare PORT as set by most
// container platforms.
func listenAddrFromEnv() string {
    if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
        return v
    }
    if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
        return "0.0.0.0:" + p
    }
    return ""
}
