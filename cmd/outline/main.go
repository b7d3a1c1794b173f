package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikioutline/internal/app"
	"github.com/hyperifyio/wikioutline/internal/extract"
	"github.com/hyperifyio/wikioutline/internal/outline"
)

type flags struct {
	envFile    string
	country    string
	htmlPath   string
	outputPath string
	pdfPath    string
	wikiBase   string
	userAgent  string
	timeout    time.Duration
	cacheDir   string
	verbose    bool
}

// defaultTimeout bounds a terminal run when neither HTTP_TIMEOUT nor
// -http.timeout is given.
const defaultTimeout = 30 * time.Second

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var f flags
	flag.StringVar(&f.envFile, "env", ".env", "Path to dotenv file loaded before reading the environment")
	flag.StringVar(&f.country, "country", "", "Country whose Wikipedia article is outlined")
	flag.StringVar(&f.htmlPath, "html", "", "Outline a local HTML file instead of fetching")
	flag.StringVar(&f.outputPath, "output", "", "Write Markdown here instead of stdout")
	flag.StringVar(&f.pdfPath, "output.pdf", "", "Also write a PDF rendition to this path")
	flag.StringVar(&f.wikiBase, "wiki.base", app.DefaultWikiBaseURL, "Article URL prefix")
	flag.StringVar(&f.userAgent, "ua", app.DefaultUserAgent, "User-Agent sent to Wikipedia")
	flag.DurationVar(&f.timeout, "http.timeout", defaultTimeout, "Upstream timeout; 0 waits indefinitely")
	flag.StringVar(&f.cacheDir, "cache.dir", "", "On-disk article cache directory")
	flag.BoolVar(&f.verbose, "v", false, "Verbose logging")
	flag.Parse()
	if f.country == "" && flag.NArg() > 0 {
		f.country = flag.Arg(0)
	}

	cfg, err := loadConfig(f)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if f.htmlPath != "" {
		if err := outlineFile(f.htmlPath, cfg.OutputPath, cfg.OutputPDFPath); err != nil {
			log.Fatal().Err(err).Msg("outline file")
		}
		return
	}

	if err := run(cfg); err != nil {
		// Same wording the HTTP endpoint uses.
		fmt.Fprintln(os.Stderr, app.ErrorText(cfg.Country, err))
		os.Exit(1)
	}
}

// loadConfig resolves configuration with precedence flags > env > defaults.
func loadConfig(f flags) (app.Config, error) {
	if err := app.LoadEnvFiles(f.envFile); err != nil {
		return app.Config{}, fmt.Errorf("load env file: %w", err)
	}
	cfg := app.Config{
		HTTPTimeout:   defaultTimeout,
		Country:       f.country,
		OutputPath:    f.outputPath,
		OutputPDFPath: f.pdfPath,
	}
	app.ApplyEnvOverrides(&cfg)
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "wiki.base":
			cfg.WikiBaseURL = f.wikiBase
		case "ua":
			cfg.UserAgent = f.userAgent
		case "http.timeout":
			cfg.HTTPTimeout = f.timeout
		case "cache.dir":
			cfg.CacheDir = f.cacheDir
		case "v":
			cfg.Verbose = f.verbose
		}
	})
	app.ApplyDefaults(&cfg)
	return cfg, app.ValidateConfig(cfg)
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	return a.Run(ctx)
}

// outlineFile renders a saved article without touching the network.
func outlineFile(htmlPath, outputPath, pdfPath string) error {
	b, err := os.ReadFile(htmlPath)
	if err != nil {
		return err
	}
	md := outline.Render(extract.Headings(b))
	if outputPath == "" || outputPath == "-" {
		fmt.Println(md)
	} else if err := os.WriteFile(outputPath, []byte(md+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if pdfPath != "" {
		return outline.WritePDFFile(md, pdfPath)
	}
	return nil
}
