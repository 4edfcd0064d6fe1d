package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/detect"
	"github.com/logscrub/logscrub/internal/output"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <file>...",
	Short: "Report sensitive data without rewriting anything",
	Long: `Scan log files with the local pattern detector and report what would be
masked. No AI provider is contacted and no files are written.

Examples:
  logscrub scan /var/log/app.log
  logscrub scan --format table "/var/log/*.log"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolP("count", "c", false, "only print the number of findings per file")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	countOnly, _ := cmd.Flags().GetBool("count")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	detectOpts := detect.OptionsFromConfig(cfg.Detection)
	writer := output.New(cmd.OutOrStdout(),
		output.ParseFormat(viper.GetString("format")),
		output.ParseColorMode(viper.GetString("color")))
	multiFile := len(files) > 1

	for _, filePath := range files {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}

		res := detect.DetectAndReplace(string(content), detectOpts)

		if countOnly {
			if multiFile {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", filePath, len(res.Mappings))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", len(res.Mappings))
			continue
		}

		if multiFile {
			fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n", filePath)
		}
		if err := writer.WriteMappings(res.Mappings); err != nil {
			return err
		}
	}
	return nil
}
