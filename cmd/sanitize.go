package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/detect"
	"github.com/logscrub/logscrub/internal/output"
	"github.com/logscrub/logscrub/internal/pipeline"
	"github.com/logscrub/logscrub/internal/provider"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [flags] <file>...",
	Short: "Sanitize sensitive data in log files",
	Long: `Sanitize log files by masking sensitive data with deterministic mock values.

Each input file produces <file>.sanitized with the masked content and
<file>.mappings.json recording every original-to-replacement pair. The
original file is never modified; --backup additionally writes a timestamped
copy before processing.

Examples:
  logscrub sanitize /var/log/app.log
  logscrub sanitize --provider ollama "/var/log/*.log"
  logscrub sanitize --local-only --backup app.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSanitize,
}

func init() {
	sanitizeCmd.Flags().StringP("provider", "p", "", "preferred AI provider (openai, azure, ollama)")
	sanitizeCmd.Flags().Bool("local-only", false, "skip AI providers, use only the local detector")
	sanitizeCmd.Flags().BoolP("backup", "b", false, "write a timestamped backup of each input file")
	sanitizeCmd.Flags().BoolP("stdout", "o", false, "write sanitized content to stdout instead of files")

	_ = viper.BindPFlag("default_provider", sanitizeCmd.Flags().Lookup("provider"))

	rootCmd.AddCommand(sanitizeCmd)
}

func runSanitize(cmd *cobra.Command, args []string) error {
	preferred, _ := cmd.Flags().GetString("provider")
	localOnly, _ := cmd.Flags().GetBool("local-only")
	backup, _ := cmd.Flags().GetBool("backup")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	logger := newLogger()

	pipe, cfg, err := buildPipeline(logger)
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	writer := output.New(cmd.ErrOrStderr(),
		output.ParseFormat(viper.GetString("format")),
		output.ParseColorMode(viper.GetString("color")))

	for _, filePath := range files {
		res, err := sanitizeFile(cmd.Context(), pipe, cfg, logger, filePath, sanitizeFileOptions{
			preferred: preferred,
			localOnly: localOnly,
			backup:    backup,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}

		if toStdout {
			fmt.Fprint(cmd.OutOrStdout(), res.SanitizedText)
			continue
		}

		if err := writeOutputs(filePath, res); err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "==> %s <==\n", filePath)
		if err := writer.WriteResult(res); err != nil {
			return err
		}
	}
	return nil
}

type sanitizeFileOptions struct {
	preferred string
	localOnly bool
	backup    bool
}

// sanitizeFile reads one file and runs the pipeline over its content.
func sanitizeFile(ctx context.Context, pipe *pipeline.Pipeline, cfg *config.Config, logger *slog.Logger, filePath string, opts sanitizeFileOptions) (*pipeline.Result, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if opts.backup {
		if err := writeBackup(filePath, content); err != nil {
			return nil, fmt.Errorf("backup failed: %w", err)
		}
	}

	detectOpts := detect.OptionsFromConfig(cfg.Detection)
	sanitizeOpts := provider.OptionsFromConfig(cfg.Sanitization)

	if opts.localOnly {
		local := detect.DetectAndReplace(string(content), detectOpts)
		return &pipeline.Result{
			OriginalText:          local.OriginalText,
			SanitizedText:         local.PrefilteredText,
			Mappings:              local.Mappings,
			ProviderName:          pipeline.LocalProviderName,
			LocalReplacementCount: len(local.Mappings),
		}, nil
	}

	logger.Debug("sanitizing file", "path", filePath, "bytes", len(content))
	return pipe.Sanitize(ctx, string(content), opts.preferred, detectOpts, sanitizeOpts)
}

// writeOutputs writes <file>.sanitized and <file>.mappings.json next to the
// input. The input itself is never touched.
func writeOutputs(filePath string, res *pipeline.Result) error {
	if err := os.WriteFile(filePath+".sanitized", []byte(res.SanitizedText), 0o600); err != nil {
		return err
	}

	mappings, err := json.MarshalIndent(res.Mappings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath+".mappings.json", append(mappings, '\n'), 0o600)
}

// writeBackup copies the original content to <file>.<timestamp>.bak.
func writeBackup(filePath string, content []byte) error {
	stamp := time.Now().Format("20060102-150405")
	return os.WriteFile(fmt.Sprintf("%s.%s.bak", filePath, stamp), content, 0o600)
}
