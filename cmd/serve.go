package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"budgetboard/internal/server"
	"budgetboard/internal/storage"
)

var flagNoExport bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the budget page and its charts over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagNoExport, "no-export", false, "Disable the /export endpoint")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	var client storage.StorageClient
	if !flagNoExport {
		client, err = storage.NewStorageClient(ctx, a.cfg, a.log)
		if err != nil {
			return err
		}
	}

	srv := server.NewServer(ctx, a.cfg, a.page, client, a.version, a.log)
	defer srv.Close()

	if err := a.page.Mount(ctx); err != nil {
		return err
	}
	return srv.Start(ctx)
}
