package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/wikioutline/internal/fetch"
)

// Defaults shared by flag registration and ApplyFileConfig so a flag left at
// its default can still be overridden by the config file.
const (
    DefaultAddr        = "0.0.0.0:8000"
    DefaultWikiBaseURL = fetch.DefaultBaseURL
    DefaultUserAgent   = fetch.DefaultUserAgent
    DefaultMaxAttempts = 1
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags/env.
type FileConfig struct {
    Addr string `yaml:"addr" json:"addr"`

    Wiki struct {
        Base string `yaml:"base" json:"base"`
        UA   string `yaml:"ua" json:"ua"`
    } `yaml:"wiki" json:"wiki"`

    HTTP struct {
        Timeout     time.Duration `yaml:"timeout" json:"timeout"`
        MaxAttempts int           `yaml:"maxAttempts" json:"maxAttempts"`
    } `yaml:"http" json:"http"`

    Cache struct {
        Dir         string        `yaml:"dir" json:"dir"`
        MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
        Clear       bool          `yaml:"clear" json:"clear"`
        StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
    } `yaml:"cache" json:"cache"`

    Output    string `yaml:"output" json:"output"`
    OutputPDF string `yaml:"outputPDF" json:"outputPDF"`

    Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset or still at their flag default.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if (cfg.Addr == "" || cfg.Addr == DefaultAddr) && fc.Addr != "" { cfg.Addr = fc.Addr }
    if (cfg.WikiBaseURL == "" || cfg.WikiBaseURL == DefaultWikiBaseURL) && fc.Wiki.Base != "" { cfg.WikiBaseURL = fc.Wiki.Base }
    if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent) && fc.Wiki.UA != "" { cfg.UserAgent = fc.Wiki.UA }

    if cfg.HTTPTimeout == 0 && fc.HTTP.Timeout > 0 { cfg.HTTPTimeout = fc.HTTP.Timeout }
    if (cfg.HTTPMaxAttempts == 0 || cfg.HTTPMaxAttempts == DefaultMaxAttempts) && fc.HTTP.MaxAttempts > 0 { cfg.HTTPMaxAttempts = fc.HTTP.MaxAttempts }

    if cfg.CacheDir == "" && fc.Cache.Dir != "" { cfg.CacheDir = fc.Cache.Dir }
    if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 { cfg.CacheMaxAge = fc.Cache.MaxAge }
    if !cfg.CacheClear && fc.Cache.Clear { cfg.CacheClear = true }
    if !cfg.CacheStrictPerms && fc.Cache.StrictPerms { cfg.CacheStrictPerms = true }

    if cfg.OutputPath == "" && fc.Output != "" { cfg.OutputPath = fc.Output }
    if cfg.OutputPDFPath == "" && fc.OutputPDF != "" { cfg.OutputPDFPath = fc.OutputPDF }

    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.WikiBaseURL) == "" {
        return errors.New("config: wiki.base is required")
    }
    if !strings.HasPrefix(cfg.WikiBaseURL, "http://") && !strings.HasPrefix(cfg.WikiBaseURL, "https://") {
        return fmt.Errorf("config: wiki.base must be an http(s) URL, got %q", cfg.WikiBaseURL)
    }
    if cfg.HTTPTimeout < 0 || cfg.CacheMaxAge < 0 || cfg.HTTPMaxAttempts < 0 {
        return errors.New("config: negative limits are not allowed")
    }
    return nil
}
