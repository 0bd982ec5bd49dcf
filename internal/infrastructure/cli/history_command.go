package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/aicoder/internal/app"
)

const defaultHistoryLimit = 20

// jsonExporter is implemented by stores that can dump their contents.
type jsonExporter interface {
	ExportJSON(dest string) error
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect invocation history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.HistoryStore.Records(limit, "")
			if err != nil {
				return err
			}
			RenderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search history by prompt or model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.HistoryStore.Records(limit, args[0])
			if err != nil {
				return err
			}
			RenderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Limit search results")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.HistoryStore.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, ok := container.HistoryStore.(jsonExporter)
			if !ok {
				return fmt.Errorf("history store does not support export")
			}
			if err := exporter.ExportJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}
}
