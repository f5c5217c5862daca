package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/urfave/cli.v1"
)

const (
	defaultPort    = 8080
	defaultNodeURL = "http://127.0.0.1:8080"
)

// Config aggregates everything the commands need.
type Config struct {
	Log     LogConfig
	Node    string
	Timeout time.Duration
	CAFile  string
	Serve   ServeConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type ServeConfig struct {
	Listen  string
	Genesis string
	TLS     bool
	CertOut string
	CORS    bool
	NodeID  string
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Node:    defaultNodeURL,
		Timeout: 10 * time.Second,
		Serve: ServeConfig{
			Listen:  fmt.Sprintf("127.0.0.1:%d", defaultPort),
			Genesis: "Genesis block",
			CertOut: "blockledger.pem",
		},
	}
}

// makeConfig merges the defaults with the global flags and, when run from
// serve, the serve flags.
func makeConfig(c *cli.Context) Config {
	cfg := defaultConfig()

	if v := c.GlobalString(logLevelFlag); v != "" {
		cfg.Log.Level = v
	}
	if v := c.GlobalString(logFormatFlag); v != "" {
		cfg.Log.Format = v
	}
	if v := c.GlobalString(nodeFlag); v != "" {
		cfg.Node = v
	}
	if v := c.GlobalDuration(timeoutFlag); v > 0 {
		cfg.Timeout = v
	}
	cfg.CAFile = c.GlobalString(caFlag)

	if c.Command.Name == serveCommand {
		if v := c.String(listenFlag); v != "" {
			cfg.Serve.Listen = v
		}
		if c.IsSet(genesisFlag) {
			cfg.Serve.Genesis = c.String(genesisFlag)
		}
		if v := c.String(certOutFlag); v != "" {
			cfg.Serve.CertOut = v
		}
		cfg.Serve.TLS = c.Bool(tlsFlag)
		cfg.Serve.CORS = c.Bool(corsFlag)
		cfg.Serve.NodeID = c.String(nodeIDFlag)
	}

	return cfg
}

// newLogger builds a slog logger backed by the pterm logger.
func newLogger(cfg LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter pterm.LogFormatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = pterm.LogFormatterColorful
	case "json":
		formatter = pterm.LogFormatterJSON
	default:
		return nil, fmt.Errorf("unknown log format %q, expected text or json", cfg.Format)
	}

	logger := pterm.DefaultLogger.WithLevel(level).WithFormatter(formatter).WithWriter(w)
	return slog.New(pterm.NewSlogHandler(logger)), nil
}

func parseLogLevel(s string) (pterm.LogLevel, error) {
	switch strings.ToLower(s) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	default:
		return pterm.LogLevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
}
