package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"budgetboard/internal/reports"
	"budgetboard/internal/storage"
)

var (
	flagOutDir  string
	flagTimeout time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fetch once, render both charts and store them with the page",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&flagOutDir, "out", "o", "", "Local export directory (overrides LOCAL_EXPORT_DIR)")
	renderCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Maximum time to wait for both fetches")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if flagOutDir != "" {
		a.cfg.LocalExportDir = flagOutDir
	}
	client, err := storage.NewStorageClient(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := a.page.Mount(ctx); err != nil {
		return err
	}

	if err := a.page.Wait(ctx); err != nil {
		return fmt.Errorf("failed waiting for budget data: %w", err)
	}

	snap, err := a.page.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := a.page.Unmount(ctx); err != nil {
		return err
	}

	exporter := reports.NewStorageOrchestrator(client, reports.NewHTMLBuilder(), a.version, a.log)
	folder, err := exporter.Export(ctx, snap)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pie: %s, bar: %v\n", snap.PieState, snap.HasBar())
	fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", folder)
	return nil
}
