package main

import (
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/company-hunter/internal/mcp"
	"github.com/honeycarbs/company-hunter/pkg/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := initApp(cmd.Context(), false)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(a.Logger, a.Config, a.Resources())

	// connections close only after in-flight requests drain
	stopped := make(chan struct{})
	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		srv,
		10*time.Second,
		a.Logger,
		cleanup,
		func() { close(stopped) },
	)

	a.Logger.Info("MCP server initialized and starting", "sources", a.Sources)

	if err := srv.Run(); err != nil {
		a.Logger.Error("MCP server exited with error", "err", err)
		cleanup()
		return err
	}

	<-stopped
	a.Logger.Info("MCP server stopped")
	return nil
}
