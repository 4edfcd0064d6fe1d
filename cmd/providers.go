package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/output"
	"github.com/logscrub/logscrub/internal/pipeline"
	"github.com/logscrub/logscrub/internal/provider"
	"github.com/logscrub/logscrub/internal/provider/azure"
	"github.com/logscrub/logscrub/internal/provider/ollama"
	"github.com/logscrub/logscrub/internal/provider/openai"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List AI providers and their configuration state",
	Long: `List the registered AI providers, whether each is configured, and which
one would be selected for the next sanitization run.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

// buildSelector constructs every provider from configuration and registers
// them in a fixed order: openai, azure, ollama.
func buildSelector(cfg *config.Config, logger *slog.Logger) (*provider.Selector, error) {
	openaiProvider, err := openai.New(cfg.Providers.OpenAI, logger)
	if err != nil {
		return nil, err
	}
	azureProvider, err := azure.New(cfg.Providers.Azure, logger)
	if err != nil {
		return nil, err
	}
	ollamaProvider, err := ollama.New(cfg.Providers.Ollama, logger)
	if err != nil {
		return nil, err
	}

	return provider.NewSelector(cfg.DefaultProvider, logger,
		openaiProvider, azureProvider, ollamaProvider), nil
}

// buildPipeline wires configuration, logger, selector, and pipeline together
// for the sanitize and watch commands.
func buildPipeline(logger *slog.Logger) (*pipeline.Pipeline, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	selector, err := buildSelector(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(selector, logger), cfg, nil
}

func runProviders(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	selector, err := buildSelector(cfg, logger)
	if err != nil {
		return err
	}

	selectedName := ""
	if selected, err := selector.Get(""); err == nil {
		selectedName = selected.Name()
	}

	format := output.ParseFormat(viper.GetString("format"))
	if format == output.FormatJSON {
		type providerState struct {
			Name       string `json:"name"`
			Configured bool   `json:"configured"`
			Selected   bool   `json:"selected"`
		}
		states := make([]providerState, 0, len(selector.Providers()))
		for _, p := range selector.Providers() {
			states = append(states, providerState{
				Name:       p.Name(),
				Configured: p.Configured(),
				Selected:   p.Name() == selectedName,
			})
		}
		return output.New(cmd.OutOrStdout(), output.FormatJSON, output.ColorNever).WriteJSON(states)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCONFIGURED\tSELECTED")
	for _, p := range selector.Providers() {
		selected := ""
		if p.Name() == selectedName {
			selected = "*"
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\n", p.Name(), p.Configured(), selected)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if selectedName == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "\nNo provider is configured; sanitization will use the local detector only.")
	}
	return nil
}
