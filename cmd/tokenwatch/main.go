package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/manivija/tokenwatch"
	"github.com/manivija/tokenwatch/config"
	"github.com/manivija/tokenwatch/core"
	"github.com/manivija/tokenwatch/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// Command line flags
var targetsFile string

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "tokenwatch",
		Short:   "Telegram bot watching crypto token price bounds",
		Version: "1.0.0",
	}

	// Add commands
	rootCmd.AddCommand(buildRunCmd())
	rootCmd.AddCommand(buildTargetsCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the monitor loop and the Telegram command interface",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := tokenwatch.NewBot(ctx, settings)
	if err != nil {
		return err
	}

	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}

func buildTargetsCmd() *cobra.Command {
	targetsCmd := &cobra.Command{
		Use:   "targets",
		Short: "Print the persisted watch-list",
		RunE:  runTargets,
	}

	targetsCmd.Flags().StringVarP(&targetsFile, "file", "f", config.DefaultTargetsFile, "Watch-list file path")

	return targetsCmd
}

func runTargets(cmd *cobra.Command, args []string) error {
	store := storage.NewFileStore(targetsFile, tokenwatch.DefaultLog)

	targets, err := store.Load(context.Background())
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		fmt.Println("No tokens are being tracked.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "ID", "Lower", "Upper"})

	for _, target := range targets {
		table.Append([]string{
			target.Symbol,
			target.ID,
			formatBound(boundValue(target, true)),
			formatBound(boundValue(target, false)),
		})
	}

	table.Render()
	return nil
}

func boundValue(target core.Target, lower bool) *float64 {
	if target.Bounds == nil {
		return nil
	}
	if lower {
		return target.Bounds.Lower
	}
	return target.Bounds.Upper
}

func formatBound(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("$%.5f", *value)
}
