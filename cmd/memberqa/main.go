// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/poiesic/memberqa"
	"github.com/poiesic/memberqa/config"
	"github.com/poiesic/memberqa/ingestion"
	"github.com/poiesic/memberqa/server"
	"github.com/poiesic/memberqa/tui"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "memberqa",
		Usage: "Answer questions about member messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or TOML config file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file",
				Value: ".env",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to the configured server.addr)",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Reindex when the local messages file changes",
					},
					&cli.IntFlag{
						Name:  "max-conns",
						Usage: "Maximum concurrent connections (defaults to the configured server.max_conns)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question, or start an interactive session when none is given",
				ArgsUsage: "<question...>",
				Action:    askCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Fetch messages from the configured sources and rebuild the index",
				Action: reindexCommand,
			},
			{
				Name:   "sample",
				Usage:  "Print the first documents of the index as JSON",
				Action: sampleCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "n",
						Usage: "Number of documents",
						Value: memberqa.DefaultSampleSize,
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Include source records",
					},
				},
			},
			{
				Name:   "analyze",
				Usage:  "Summarize the indexed messages",
				Action: analyzeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the report as JSON",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: mcpCommand,
			},
		},
	}
}

// loadConfig layers defaults, the config file, the .env file and the
// environment, then applies the global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(c.String("log-level"))
	return cfg, nil
}

func openEngine(c *cli.Context, opts ...memberqa.EngineOption) (*memberqa.Engine, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	engine, err := memberqa.Open(cfg, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	engine, cfg, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Load(ctx); err != nil {
		return err
	}

	if c.Bool("watch") {
		path, err := watchPath(cfg)
		if err != nil {
			return err
		}
		go func() {
			if err := engine.Watch(ctx, path); err != nil {
				slog.Error("file watcher stopped", "path", path, "err", err)
			}
		}()
	}

	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	maxConns := cfg.Server.MaxConns
	if c.IsSet("max-conns") {
		maxConns = c.Int("max-conns")
	}

	srv, err := server.NewHTTPServer(engine,
		server.WithMaxConns(maxConns),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout()),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, addr)
}

// watchPath picks the messages file to watch: the configured path, else
// the first default location that exists.
func watchPath(cfg *config.Config) (string, error) {
	if cfg.Messages.Path != "" {
		return cfg.Messages.Path, nil
	}
	for _, path := range ingestion.DefaultMessagePaths("") {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no messages file to watch: set MESSAGES_PATH")
}

func askCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	interactive := question == "" && term.IsTerminal(int(os.Stdin.Fd()))
	if question == "" && !interactive {
		return errors.New("a question is required")
	}

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Load(ctx); err != nil {
		return err
	}

	if interactive {
		stats := engine.Stats()
		summary := fmt.Sprintf("%d messages, generation %d, %s answers", stats.TotalDocs, stats.Generation, stats.AnswerMode)
		return tui.Run(ctx, engine, summary)
	}

	fmt.Fprintln(c.App.Writer, engine.Answer(ctx, question))
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	engine, _, err := openEngine(c, memberqa.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer engine.Close()

	n, err := engine.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Indexed %d documents (generation %d)\n", n, engine.Stats().Generation)
	return nil
}

func sampleCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Load(ctx); err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(engine.DebugSample(c.Int("n"), c.Bool("raw")))
}

func analyzeCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Load(ctx); err != nil {
		return err
	}

	report := engine.Analyze()
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return report.WriteText(c.App.Writer)
}

func mcpCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Load(ctx); err != nil {
		return err
	}

	srv, err := server.NewMCPServer(engine)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Logs go to stderr so stdout stays clean for answers and MCP
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
