package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lazyscan-project/lazyscan/internal/audit"
	"github.com/lazyscan-project/lazyscan/internal/deleter"
	"github.com/lazyscan-project/lazyscan/internal/policy"
	"github.com/lazyscan-project/lazyscan/internal/recovery"
	"github.com/lazyscan-project/lazyscan/internal/trash"
	"github.com/lazyscan-project/lazyscan/pkg/errclass"
	"github.com/lazyscan-project/lazyscan/pkg/model"
)

var (
	cleanCategory  string
	cleanNoDryRun  bool
	cleanPermanent bool
	cleanForce     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean PATH...",
	Short: "Delete cache paths through the safety gates",
	Long: `clean runs each path through the full deletion pipeline: symlink
rejection, canonicalization, critical-path blocking, and policy approval,
then moves approved paths to the trash (or deletes permanently with
--permanent). Every decision is appended to the audit log.

Without --no-dry-run nothing on disk is touched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		category := model.Category(cleanCategory)
		if !category.Valid() {
			return errclass.ErrConfigInvalid.WithMessagef(
				"unknown category %q (valid: %v)", cleanCategory, model.Categories())
		}

		engine, err := policy.Load(cfg.PolicyPath)
		if err != nil {
			return err
		}

		retention := engine.Policy().BackupRetentionDays
		if retention == 0 {
			retention = cfg.BackupRetentionDays
		}

		dryRun := !cleanNoDryRun
		mode := model.ModeTrash
		if cleanPermanent {
			mode = model.ModePermanent
		}

		// Probe the trash backend only when it can actually be used; a dry
		// run must not fail on an exotic platform.
		var backend trash.Backend
		if mode == model.ModeTrash && !dryRun {
			backend, err = trash.New()
			if err != nil {
				return err
			}
		}

		d := deleter.New(
			engine,
			audit.NewAppender(cfg.AuditLogPath),
			recovery.NewManager(cfg.BackupDir, retention),
			backend,
			logger,
			deleter.Options{Interactive: isatty.IsTerminal(os.Stdin.Fd())},
		)

		if deleter.KillSwitchEngaged() && !dryRun {
			logger.Warn("kill switch engaged; all deletions will be blocked", nil)
		}

		reqs := make([]model.DeletionRequest, 0, len(args))
		for _, path := range args {
			reqs = append(reqs, model.DeletionRequest{
				Target: model.CandidatePath{
					Path:         path,
					Category:     category,
					DiscoveredBy: "cli",
				},
				Mode:   mode,
				DryRun: dryRun,
				Force:  cleanForce,
			})
		}

		results := d.DeleteAll(reqs)
		if jsonOutput {
			if err := outputJSON(results); err != nil {
				return err
			}
		} else {
			for _, res := range results {
				printResult(res)
			}
		}

		return batchOutcome(results)
	},
}

// batchOutcome folds per-path results into the process exit status.
func batchOutcome(results []model.DeletionResult) error {
	var succeeded, blocked, failed int
	for _, res := range results {
		switch {
		case res.Success:
			succeeded++
		case res.Decision == model.DecisionBlocked:
			blocked++
		default:
			failed++
		}
	}

	switch {
	case blocked == 0 && failed == 0:
		return nil
	case succeeded > 0:
		return fmt.Errorf("%w (%d ok, %d blocked, %d failed)",
			errPartialFailure, succeeded, blocked, failed)
	case failed == 0:
		return errAllBlocked
	default:
		return errAllFailed
	}
}

func init() {
	cleanCmd.Flags().StringVar(&cleanCategory, "category", string(model.CategoryOther),
		"candidate category for policy lookup")
	cleanCmd.Flags().BoolVar(&cleanNoDryRun, "no-dry-run", false, "actually delete (default is dry run)")
	cleanCmd.Flags().BoolVar(&cleanPermanent, "permanent", false, "bypass trash and delete permanently")
	cleanCmd.Flags().BoolVar(&cleanForce, "force", false, "skip the permanent-deletion confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}
