package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lazyscan-project/lazyscan/internal/recovery"
)

var (
	restoreOverwrite bool
	restoreListDays  int
)

var restoreCmd = &cobra.Command{
	Use:   "restore OPERATION-ID",
	Short: "Restore a backed-up path to its original location",
	Long: `restore copies the backup recorded for an operation id back to the
path it was deleted from. The backup is verified against its recorded
checksum first, and restore refuses to overwrite an existing path with
different content unless --overwrite is set.

Operation ids are printed by clean and listed by "restore list".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mgr := recovery.NewManager(cfg.BackupDir, cfg.BackupRetentionDays)
		result, err := mgr.Restore(args[0], restoreOverwrite)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		if result.AlreadyPresent {
			fmt.Printf("%s already matches the backup; nothing restored\n", result.RestoredPath)
			return nil
		}
		fmt.Printf("%s restored %s %s\n", styleOK.Render("RESTORED"), result.RestoredPath,
			styleFaint.Render("("+humanize.IBytes(uint64(result.BytesRestored))+")"))
		return nil
	},
}

var restoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recoverable backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mgr := recovery.NewManager(cfg.BackupDir, cfg.BackupRetentionDays)
		entries, err := mgr.ListRecoverable(restoreListDays)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("no recoverable backups")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("%s  %s  %8s  %s\n",
				entry.OperationID,
				entry.CreatedAt.Format("2006-01-02 15:04"),
				humanize.IBytes(uint64(entry.Size)),
				entry.OriginalPath)
		}
		return nil
	},
}

func init() {
	restoreCmd.Flags().BoolVar(&restoreOverwrite, "overwrite", false,
		"replace an existing path with different content")
	restoreListCmd.Flags().IntVar(&restoreListDays, "days", 0,
		"only list backups created within the last N days (0 = all)")
	restoreCmd.AddCommand(restoreListCmd)
	rootCmd.AddCommand(restoreCmd)
}
