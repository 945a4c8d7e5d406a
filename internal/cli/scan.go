package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lazyscan-project/lazyscan/internal/scanner"
)

var scanTop int

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Report the largest files under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		topN := cfg.Scan.TopFiles
		if scanTop > 0 {
			topN = scanTop
		}

		report, err := scanner.New(topN).Scan(root)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(report)
		}

		fmt.Printf("Scanned %s: %s across %d files\n",
			report.Root, humanize.IBytes(uint64(report.TotalBytes)), report.FileCount)
		if report.Volume != nil {
			fmt.Printf("Volume: %s used of %s (%.1f%%)\n",
				humanize.IBytes(report.Volume.Used),
				humanize.IBytes(report.Volume.Total),
				report.Volume.UsedPercent)
		}
		fmt.Println()
		for _, entry := range report.Largest {
			fmt.Printf("%10s  %s\n", humanize.IBytes(uint64(entry.Size)), entry.Path)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanTop, "top", 0, "number of largest files to report (default from config)")
	rootCmd.AddCommand(scanCmd)
}
