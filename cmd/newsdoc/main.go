package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsdoc"
	"github.com/fwojciec/newsdoc/charset"
	"github.com/fwojciec/newsdoc/goquery"
	newsdochttp "github.com/fwojciec/newsdoc/http"
	"github.com/fwojciec/newsdoc/inmem"
	"github.com/fwojciec/newsdoc/naver"
	"github.com/fwojciec/newsdoc/pipeline"
	"github.com/fwojciec/newsdoc/prometheus"
	"github.com/fwojciec/newsdoc/readability"
	"github.com/fwojciec/newsdoc/redis"
	"github.com/fwojciec/newsdoc/rod"
	newsslog "github.com/fwojciec/newsdoc/slog"
	"github.com/fwojciec/newsdoc/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Resolver replaces the wired pipeline. Used for end-to-end testing.
	Resolver newsdoc.Resolver

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases resources opened while wiring dependencies.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsdoc"),
		kong.Description("Search Korean news and extract article text and images"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsdoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = NewLogger(stderr, cli.LogLevel, cli.LogFormat)
	deps.Metrics = prometheus.NewMetrics()

	if m.Resolver != nil {
		deps.Resolver = m.Resolver
	} else {
		defer m.Close()
		if deps.Resolver, err = m.wire(ctx, &cli.Config, deps, stderr); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wire builds the search pipeline from cfg.
func (m *Main) wire(ctx context.Context, cfg *Config, deps *Dependencies, stderr io.Writer) (newsdoc.Resolver, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		fmt.Fprintln(stderr, "Hint: Register an application at https://developers.naver.com/apps to get API credentials")
		return nil, fmt.Errorf("NAVER_API_CLIENT_ID and NAVER_API_CLIENT_SECRET must be set")
	}
	logger, metrics := deps.Logger, deps.Metrics

	var searcher newsdoc.Searcher = naver.NewSearcher(cfg.ClientID, cfg.ClientSecret)
	searcher = newsslog.NewLoggingSearcher(searcher, logger)
	searcher = prometheus.NewSearcher(searcher, metrics)

	var fetcher newsdoc.Fetcher
	switch cfg.Fetcher {
	case "rod":
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.FetchTimeout), rod.WithPagesPerBrowser(cfg.BrowserPages))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	default:
		opts := []newsdochttp.Option{newsdochttp.WithTimeout(cfg.FetchTimeout)}
		if cfg.HostRPS > 0 {
			opts = append(opts, newsdochttp.WithLimiter(newsdochttp.NewDomainLimiter(cfg.HostRPS, 1)))
		}
		fetcher = newsdochttp.NewFetcher(opts...)
	}
	m.closers = append(m.closers, fetcher)
	fetcher = newsslog.NewLoggingFetcher(fetcher, logger)
	fetcher = prometheus.NewFetcher(fetcher, metrics)

	var decoderOpts []charset.Option
	if cfg.DetectCharset {
		decoderOpts = append(decoderOpts, charset.WithDetection())
	}

	var selector newsdoc.ContentSelector = readability.NewSelector()
	if cfg.Selector == "trafilatura" {
		selector = trafilatura.NewSelector()
	}

	var cache newsdoc.Cache
	switch cfg.Cache {
	case "redis":
		c, err := redis.Open(ctx, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set NEWSDOC_REDIS_ADDR or use --cache=memory")
			return nil, err
		}
		m.closers = append(m.closers, c)
		cache = c
	default:
		cache = inmem.NewCache(cfg.CacheTTL)
	}
	cache = prometheus.NewCache(cache, metrics)

	var resolver newsdoc.Resolver = &pipeline.Resolver{
		Searcher: searcher,
		Articles: &pipeline.ArticleFetcher{
			Fetcher:     fetcher,
			Decoder:     charset.NewDecoder(decoderOpts...),
			Pruner:      goquery.NewPruner(goquery.DefaultDenylist...),
			Selector:    selector,
			Images:      goquery.NewImageHarvester(),
			Logger:      logger,
			RetryDelays: cfg.retryDelays(),
		},
		Cache:       cache,
		Logger:      logger,
		Concurrency: cfg.Concurrency,
	}
	resolver = prometheus.NewResolver(resolver, metrics)
	resolver = newsslog.NewLoggingResolver(resolver, logger)
	return resolver, nil
}

// NewLogger returns a slog logger writing to w at the named level.
// format is "text" or "json".
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
