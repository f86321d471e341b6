package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsdoc"
	"github.com/fwojciec/newsdoc/pipeline"
	"github.com/fwojciec/newsdoc/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Metrics  *prometheus.Metrics
	Resolver newsdoc.Resolver
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Serve  ServeCmd  `cmd:"" help:"Serve the news search API over HTTP"`
	Search SearchCmd `cmd:"" help:"Search news and print extracted articles as JSON"`
}

// Config holds settings shared by all commands.
type Config struct {
	ClientID     string `name:"naver-client-id" env:"NAVER_API_CLIENT_ID" help:"Naver Open API client ID"`
	ClientSecret string `name:"naver-client-secret" env:"NAVER_API_CLIENT_SECRET" help:"Naver Open API client secret"`

	Cache     string        `enum:"memory,redis" default:"memory" env:"NEWSDOC_CACHE" help:"Result cache backend (memory, redis)"`
	RedisAddr string        `default:"localhost:6379" env:"NEWSDOC_REDIS_ADDR" help:"Redis address for --cache=redis"`
	CacheTTL  time.Duration `name:"cache-ttl" default:"1h" env:"NEWSDOC_CACHE_TTL" help:"How long search results are cached"`

	Fetcher       string        `enum:"http,rod" default:"http" env:"NEWSDOC_FETCHER" help:"Page fetcher (http, rod)"`
	FetchTimeout  time.Duration `default:"10s" env:"NEWSDOC_FETCH_TIMEOUT" help:"Timeout for a single page fetch"`
	FetchRetries  int           `default:"0" env:"NEWSDOC_FETCH_RETRIES" help:"Retries for a failed page fetch"`
	BrowserPages  int64         `default:"75" env:"NEWSDOC_BROWSER_PAGES" help:"Pages rendered before Chrome is restarted with --fetcher=rod"`
	HostRPS       float64       `name:"host-rps" default:"0" env:"NEWSDOC_HOST_RPS" help:"Requests per second per publisher host (0 = unlimited)"`
	Selector      string        `enum:"readability,trafilatura" default:"readability" env:"NEWSDOC_SELECTOR" help:"Main content extractor (readability, trafilatura)"`
	DetectCharset bool          `env:"NEWSDOC_DETECT_CHARSET" help:"Also try a statistically detected charset when decoding pages"`
	Concurrency   int           `short:"c" default:"0" env:"NEWSDOC_CONCURRENCY" help:"Articles extracted at once (0 = all)"`

	LogLevel  string `enum:"debug,info,warn,error" default:"info" env:"NEWSDOC_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string `enum:"text,json" default:"text" env:"NEWSDOC_LOG_FORMAT" help:"Log format (text, json)"`
}

// retryDelays returns FetchRetries backoff delays, doubling from the first
// default delay.
func (c *Config) retryDelays() []time.Duration {
	if c.FetchRetries <= 0 {
		return nil
	}
	delays := make([]time.Duration, c.FetchRetries)
	d := pipeline.DefaultRetryDelays()[0]
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"NEWSDOC_ADDR" help:"Address to listen on"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Term   []string `arg:"" help:"Search term"`
	Pretty bool     `short:"p" help:"Indent JSON output"`
	Out    string   `short:"o" type:"path" help:"Also write each article as a Markdown file into this directory"`
}
