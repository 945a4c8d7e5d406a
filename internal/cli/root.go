// Package cli wires the safe-deletion core to the lazyscan command line.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lazyscan-project/lazyscan/pkg/config"
	"github.com/lazyscan-project/lazyscan/pkg/logging"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

var (
	jsonOutput bool
	configPath string

	rootCmd = &cobra.Command{
		Use:   "lazyscan",
		Short: "lazyscan - disk-usage scanner with guarded cache cleanup",
		Long: `lazyscan walks directory trees, reports the largest files, and deletes
known application cache paths behind a layered safety gate: path
canonicalization, critical-path blocking, policy approval, trash-first
removal, pre-deletion backups, and an append-only audit log.

Deletions are dry-run by default; pass --no-dry-run to apply them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(os.Stderr,
		logging.ParseLevel(cfg.Logging.Level),
		logging.Format(cfg.Logging.Format))
}

// outputJSON prints v as indented JSON when --json is set.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Output styles. Dry runs must be visually distinct from executed
// deletions; blocked and failed results carry their specific reason.
var (
	styleDryRun  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleBlocked = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleFaint   = lipgloss.NewStyle().Faint(true)
)

func printResult(res model.DeletionResult) {
	switch {
	case res.DryRun && res.Success:
		fmt.Printf("%s would delete %s\n", styleDryRun.Render("DRY-RUN"), res.Path)
	case res.Decision == model.DecisionExecuted:
		line := fmt.Sprintf("%s %s %s", styleOK.Render("DELETED"), res.Path,
			styleFaint.Render("("+humanize.IBytes(uint64(res.BytesFreed))+" freed)"))
		if res.BackupPath != "" {
			line += styleFaint.Render(" [backup: " + res.OperationID + "]")
		}
		fmt.Println(line)
	case res.Decision == model.DecisionBlocked:
		fmt.Printf("%s %s\n  %s\n", styleBlocked.Render("BLOCKED"), res.Path, res.Reason)
	default:
		fmt.Printf("%s %s\n  %s\n", styleBlocked.Render("FAILED"), res.Path, res.Reason)
	}
}
