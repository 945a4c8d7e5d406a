package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazyscan-project/lazyscan/internal/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage the deletion security policy",
}

var policyInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default policy file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := policy.SaveDefault(cfg.PolicyPath); err != nil {
			return err
		}
		fmt.Printf("wrote default policy to %s\n", cfg.PolicyPath)
		return nil
	},
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the loaded policy and its hash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := policy.Load(cfg.PolicyPath)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{
				"path":   cfg.PolicyPath,
				"hash":   engine.Hash(),
				"policy": engine.Policy(),
			})
		}

		fmt.Printf("policy: %s (hash %s)\n\n", cfg.PolicyPath, engine.Hash())
		data, err := os.ReadFile(cfg.PolicyPath)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyInitCmd, policyShowCmd)
	rootCmd.AddCommand(policyCmd)
}
