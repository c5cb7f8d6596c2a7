package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/exam-board/internal/server"
	"github.com/Tiliavir/exam-board/internal/sheet"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board and setup API over HTTP",
	Long: `Serve the JSON API under /api/v1 and push the live board to displays
connected to /api/v1/board/ws. Stops cleanly on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := openApp(ctx)
	defer a.close()
	if serveAddr != "" {
		a.cfg.Server.Addr = serveAddr
	}

	client := sheet.NewClient(ctx, a.cfg.Sheet.Token, a.cfg.Sheet.Timeout)
	srv := server.New(ctx, server.Options{
		Config:   a.cfg,
		Store:    a.store,
		Stager:   sheet.NewStager(client, a.logger),
		Logger:   a.logger,
		Location: a.loc,
	})
	if err := srv.Run(ctx); err != nil {
		a.logger.Error("server stopped", zap.Error(err))
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
