package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nibzard/slidegauge/internal/cache"
	"github.com/nibzard/slidegauge/internal/engine"
	"github.com/nibzard/slidegauge/internal/projectconfig"
	"github.com/nibzard/slidegauge/internal/protocol"
)

func newServeCommand() *cobra.Command {
	var useTCP bool
	var tcpAddr string
	var tcpAllowRemote bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the line-oriented JSON protocol for editor integration",
		Long: `Serve the newline-delimited JSON protocol.

By default the server communicates over stdin/stdout: one request object
per line in, one response object per line out. This lets editors and
agent toolchains analyze decks programmatically.

Use --tcp to listen on a TCP address instead (useful for debugging).
TCP defaults to loopback (127.0.0.1) for safety. Use --tcp-allow-remote
to bind to all interfaces.

Supported operations:
  analyze  Analyze a deck (document, config, parallel)
  slides   List slide identities for a deck
  rules    List the rule catalogue
  explain  Describe a single rule`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			logger := slog.Default()

			var store *cache.Store
			if proj.Cache.Enabled == nil || *proj.Cache.Enabled {
				store = cache.New(filepath.Join(".", proj.Cache.File), logger)
			}

			registry := protocol.NewRegistry()
			protocol.RegisterHandlers(registry, engine.New(store, logger))
			server := protocol.NewServer(registry, logger)

			if useTCP || tcpAddr != "" {
				addr := tcpAddr
				if addr == "" {
					addr = proj.Server.Addr
				}
				addr = resolveTCPAddr(addr, tcpAllowRemote, logger)

				listener, err := protocol.NewTCPListener(addr, server)
				if err != nil {
					return fmt.Errorf("failed to start TCP server: %w", err)
				}
				defer listener.Close() //nolint:errcheck
				fmt.Fprintf(os.Stderr, "slidegauge server listening on %s\n", listener.Addr())
				return listener.Serve()
			}

			fmt.Fprintln(os.Stderr, "slidegauge server running on stdio")
			server.ServeStdio(cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&useTCP, "tcp", false, "Listen on TCP instead of stdio")
	cmd.Flags().StringVar(&tcpAddr, "addr", "", "TCP address to listen on (default from .slidegauge.yaml)")
	cmd.Flags().BoolVar(&tcpAllowRemote, "tcp-allow-remote", false,
		"Allow binding to non-loopback addresses (WARNING: exposes the server to the network with no authentication)")

	return cmd
}

// resolveTCPAddr ensures TCP addresses default to loopback unless
// --tcp-allow-remote is set.
func resolveTCPAddr(addr string, allowRemote bool, logger *slog.Logger) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// Likely just a port like "7465"; treat as ":7465".
		host = ""
		port = addr
	}

	if allowRemote {
		logger.Warn("TCP server binding to all interfaces, no authentication is provided",
			"address", addr)
		return addr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		logger.Info("server listening on TCP (local only)")
		return net.JoinHostPort("127.0.0.1", port)
	}

	return addr
}
