// Package main provides the CLI entry point for the AI agent.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmchrislee/ai-agent/internal/agent"
	"github.com/pmchrislee/ai-agent/internal/channel"
	"github.com/pmchrislee/ai-agent/internal/channel/discord"
	"github.com/pmchrislee/ai-agent/internal/channel/telegram"
	"github.com/pmchrislee/ai-agent/internal/channel/webchat"
	"github.com/pmchrislee/ai-agent/internal/config"
	"github.com/pmchrislee/ai-agent/internal/history"
	"github.com/pmchrislee/ai-agent/internal/logging"
	"github.com/pmchrislee/ai-agent/internal/news"
	"github.com/pmchrislee/ai-agent/internal/scheduler"
	"github.com/pmchrislee/ai-agent/internal/server"
	"github.com/pmchrislee/ai-agent/internal/tui"
	"github.com/pmchrislee/ai-agent/internal/weather"
)

// version is set at build time
var version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "ai-agent",
		Short:   "Conversational assistant with weather and news",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (defaults apply when omitted)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and channel adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "cli",
		Short: "Chat with the agent in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildAgent loads config and wires the agent with its providers.
func buildAgent() (*config.Config, *agent.Agent, *history.Buffer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	hist := history.NewBuffer(cfg.Agent.MaxHistory)
	weatherSvc := weather.NewService(cfg.Weather, logging.WithComponent("weather"))
	newsSvc := news.NewService(cfg.News, logging.WithComponent("news"))
	a := agent.New(cfg.Agent, hist, weatherSvc, newsSvc, logging.WithComponent("agent"))
	return cfg, a, hist, nil
}

func runCLI() error {
	cfg, a, _, err := buildAgent()
	if err != nil {
		return err
	}
	return tui.Run(a, cfg.Server.MaxMessageLength)
}

func runServe() error {
	cfg, a, hist, err := buildAgent()
	if err != nil {
		return err
	}
	logger := logging.WithComponent("main")
	logger.Info("starting", "version", version, "host", cfg.Server.Host, "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Channel adapters
	adapters := []channel.Adapter{}
	var wc *webchat.Adapter
	if cfg.Channels.Telegram.Enabled {
		adapters = append(adapters, telegram.New(cfg.Channels.Telegram.Token, logging.WithComponent("telegram")))
	}
	if cfg.Channels.Discord.Enabled {
		adapters = append(adapters, discord.New(cfg.Channels.Discord.Token, logging.WithComponent("discord")))
	}
	if cfg.Channels.WebChat.Enabled {
		wc = webchat.New(true, logging.WithComponent("webchat"))
		adapters = append(adapters, wc)
	}

	loop := channel.NewLoop(a, cfg.Server.MaxMessageLength, logging.WithComponent("loop"))
	for _, adapter := range adapters {
		if err := adapter.Start(ctx); err != nil {
			logger.Error("failed to start adapter", "adapter", adapter.Name(), "error", err)
			continue
		}
		loop.Run(ctx, adapter)
		logger.Info("adapter started", "adapter", adapter.Name())
	}

	// Maintenance scheduler
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(cfg.Scheduler.Interval, hist, logging.WithComponent("scheduler"))
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		sched.Start()
		logger.Info("scheduler started", "interval", cfg.Scheduler.Interval)
	}

	// HTTP server
	var wsHandler http.Handler
	if wc != nil {
		wsHandler = wc.Handler()
	}
	srv := server.New(cfg, a, wsHandler, logging.WithComponent("server"))
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	for _, adapter := range adapters {
		if err := adapter.Stop(); err != nil {
			logger.Error("failed to stop adapter", "adapter", adapter.Name(), "error", err)
		}
	}
	loop.Wait()

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
