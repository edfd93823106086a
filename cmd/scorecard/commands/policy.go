package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/scorecard/internal/policy"
)

// policyCmd groups scoring policy tools
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "점수 정책 관리",
}

var policyCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "정책 파일 검증",
	Long: `정책 YAML을 검증하고 해시와 경고를 출력합니다.
경로가 없으면 --policy, POLICY_PATH, 내장 기본값 순으로 사용합니다.

Example:
  go run ./cmd/scorecard policy check config/policy/default.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicyCheck,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyCheckCmd)
}

func runPolicyCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := bootstrap()
	if err != nil {
		return err
	}

	path := cfg.PolicyPath
	if len(args) == 1 {
		path = args[0]
	}

	p, err := policy.LoadOrDefault(path)
	if err != nil {
		return err
	}

	hash, err := policy.Hash(p)
	if err != nil {
		return fmt.Errorf("hash policy: %w", err)
	}

	source := path
	if source == "" {
		source = "built-in default"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Policy valid: %s\n", source)
	fmt.Fprintf(out, "  ID      : %s (v%s)\n", p.Meta.PolicyID, p.Meta.Version)
	fmt.Fprintf(out, "  SHA-256 : %s\n", hash)

	warnings := policy.Warn(p)
	if len(warnings) == 0 {
		fmt.Fprintln(out, "  Warnings: none")
		return nil
	}

	fmt.Fprintf(out, "  Warnings: %d\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(out, "  ⚠️  [%s] %s\n", w.Code, w.Message)
	}
	return nil
}
