package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazyscan-project/lazyscan/internal/audit"
)

var auditTailCount int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the deletion audit log",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the audit log hash chain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		appender := audit.NewAppender(cfg.AuditLogPath)
		verified, err := appender.VerifyChain()
		if err != nil {
			// Report how far the chain held before failing.
			fmt.Fprintf(cmd.OutOrStdout(), "chain broken after %d verified record(s)\n", verified)
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{"verified_records": verified, "intact": true})
		}
		fmt.Printf("%s %d record(s) verified, chain intact\n", styleOK.Render("OK"), verified)
		return nil
	},
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show the most recent audit records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		records, err := audit.NewAppender(cfg.AuditLogPath).ReadAll()
		if err != nil {
			return err
		}
		if auditTailCount > 0 && len(records) > auditTailCount {
			records = records[len(records)-auditTailCount:]
		}

		if jsonOutput {
			return outputJSON(records)
		}
		for _, rec := range records {
			fmt.Printf("%s  %-8s  %s  %s\n",
				rec.Timestamp.Format("2006-01-02 15:04:05"),
				rec.Decision, rec.Path, styleFaint.Render(rec.Reason))
		}
		return nil
	},
}

func init() {
	auditTailCmd.Flags().IntVarP(&auditTailCount, "count", "n", 20, "number of records to show")
	auditCmd.AddCommand(auditVerifyCmd, auditTailCmd)
	rootCmd.AddCommand(auditCmd)
}
