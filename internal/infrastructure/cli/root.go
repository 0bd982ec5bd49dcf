// Package cli hosts the cobra commands and the terminal-facing adapters.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/aicoder/internal/app"
	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/services"
	"github.com/doeshing/aicoder/internal/version"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.GenerateService.Prompter = NewPrompter(nil, nil)

	var (
		model       string
		host        string
		agentMode   bool
		autoApprove bool
		allowUnsafe bool
		debug       bool
		timeout     time.Duration
	)

	root := &cobra.Command{
		Use:   "aicoder [prompt]",
		Short: "Local AI coding assistant backed by Ollama",
		Long:  "aicoder streams code generation from a local Ollama model and can optionally execute shell commands found in the response (agent mode).",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			if debug {
				container.Logger.SetVerbose(true)
			}

			runCtx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(runCtx, timeout)
				defer cancel()
			}

			mode := "chat"
			if agentMode {
				mode = "agent"
			}
			fmt.Fprintf(os.Stderr, "[aicoder] mode: %s\n", mode)

			sink := NewTerminalSink(nil)
			resp, err := container.GenerateService.Run(domain.GenerateRequest{
				Context:         runCtx,
				Prompt:          strings.Join(args, " "),
				ModelOverride:   model,
				HostOverride:    host,
				AgentMode:       agentMode,
				AutoApprove:     autoApprove,
				AllowUnsafeExec: allowUnsafe,
				Sink:            sink,
			})
			if agentMode {
				RenderAgentResults(os.Stderr, resp)
			}
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVarP(&model, "model", "m", "", "Model to use (default from config)")
	root.Flags().StringVarP(&host, "host", "H", "", "Ollama host (also via OLLAMA_HOST)")
	root.Flags().BoolVarP(&agentMode, "agent", "a", false, "Extract and execute shell commands from the response")
	root.Flags().BoolVarP(&autoApprove, "yes", "y", false, "Auto-approve commands without confirmation in agent mode")
	root.Flags().BoolVar(&allowUnsafe, "allow-unsafe-exec", false, "Run high-risk commands under --yes instead of skipping them")
	root.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	root.Flags().DurationVar(&timeout, "timeout", 0, "Override invocation timeout (0 uses config)")

	root.AddCommand(newModelsCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func newModelsCommand(container *app.Container) *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models installed on the Ollama host",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return err
			}
			resolved := host
			if resolved == "" {
				resolved = services.ResolveHost("", cfg)
			}
			models, err := container.ProviderFactory.ForHost(resolved).ListModels(cmd.Context())
			if err != nil {
				return err
			}
			RenderModels(cmd.OutOrStdout(), resolved, models)
			return nil
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "Ollama host (also via OLLAMA_HOST)")
	return cmd
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and host connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			RenderHealth(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aicoder version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "aicoder", version.Version)
		},
	}
}
