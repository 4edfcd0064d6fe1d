package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file>...",
	Short: "Watch log files and re-sanitize on change",
	Long: `Watch log files and re-run sanitization whenever they change.

Output files produced by this tool (.sanitized, .mappings.json, backups)
are never watched, so a run cannot trigger itself.

Examples:
  logscrub watch /var/log/app.log
  logscrub watch --provider ollama --follow-rotate /var/log/app.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("provider", "p", "", "preferred AI provider (openai, azure, ollama)")
	watchCmd.Flags().Bool("local-only", false, "skip AI providers, use only the local detector")
	watchCmd.Flags().Bool("follow-rotate", false, "keep watching through file rotations")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before re-sanitizing a changed file")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	preferred, _ := cmd.Flags().GetString("provider")
	localOnly, _ := cmd.Flags().GetBool("local-only")
	followRotate, _ := cmd.Flags().GetBool("follow-rotate")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	logger := newLogger()

	pipe, cfg, err := buildPipeline(logger)
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	onChange := func(ctx context.Context, path string) error {
		runCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
		defer cancel()

		res, err := sanitizeFile(runCtx, pipe, cfg, logger, path, sanitizeFileOptions{
			preferred: preferred,
			localOnly: localOnly,
		})
		if err != nil {
			return err
		}
		return writeOutputs(path, res)
	}

	// Sanitize everything once up front so the watcher starts from a
	// consistent state.
	for _, filePath := range files {
		if err := onChange(ctx, filePath); err != nil {
			return err
		}
	}

	w := watch.New(watch.Options{
		Paths:        files,
		Debounce:     debounce,
		FollowRotate: followRotate,
		OnChange:     onChange,
	}, logger)

	logger.Info("watching files", "count", len(files))
	return w.Run(ctx)
}
