package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/luochenghuajin/clichatroom/internal/client"
	"github.com/luochenghuajin/clichatroom/internal/config"
	"github.com/luochenghuajin/clichatroom/internal/core"
	"github.com/luochenghuajin/clichatroom/internal/history"
	"github.com/luochenghuajin/clichatroom/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatroom",
		Short:         "A terminal chat room over a length-prefixed TCP protocol",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServerCmd(), newClientCmd())
	return root
}

func newServerCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:   "server [port]",
		Short: "Run the chat server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bootLogger := log.New("info")
			cfg, path, err := config.Load(bootLogger, configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)
			if len(args) == 1 {
				port, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid port %q: %w", args[0], err)
				}
				cfg.Addr = fmt.Sprintf(":%d", port)
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting chat server")

			hist, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := core.NewServer(cfg.Addr, hist, logger)
			if err := server.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&overrides.Addr, "addr", "", "listen address (host:port)")
	cmd.Flags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&overrides.HistoryPath, "history", "", "chat history file path")
	return cmd
}

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client [host [port]]",
		Short: "Connect to a chat server from the terminal",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := "127.0.0.1"
			port := config.DefaultPort
			if len(args) >= 1 {
				host = args[0]
			}
			if len(args) == 2 {
				p, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid port %q: %w", args[1], err)
				}
				port = p
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := &client.Client{Addr: net.JoinHostPort(host, strconv.Itoa(port))}
			if err := c.Run(ctx); err != nil {
				color.Red.Println("Failed to connect to server.")
				return err
			}
			return nil
		},
	}
	return cmd
}
