package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/santa-org/santa/pkg/policy"
	"github.com/santa-org/santa/pkg/santa"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInstallCommand() *cobra.Command {
	var (
		execute    bool
		format     string
		policyDirs []string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install missing packages, or print install scripts in safe mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptFormat, err := parseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			planner, cleanup, err := buildPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			desired := desiredFromConfig(cfg)
			plan := planner.Status(cmd.Context(), cfg.Sources, desired)

			if execute {
				engine, err := policy.NewEngine(log.Logger)
				if err != nil {
					return err
				}
				if dirs := resolvePolicyDirs(policyDirs); len(dirs) > 0 {
					if err := engine.LoadPolicies(cmd.Context(), dirs); err != nil {
						return err
					}
				}
				for name, sp := range plan.Sources {
					if len(sp.Missing) == 0 {
						continue
					}
					result, err := engine.Evaluate(cmd.Context(), &policy.CommandProposal{
						Source:    name,
						Operation: string(santa.OpInstall),
						Packages:  sp.Missing,
						Timestamp: time.Now(),
					})
					if err != nil {
						return err
					}
					if !result.Allowed {
						return fmt.Errorf("policy blocked install for source %s: %+v", name, result.Violations)
					}
				}
			}

			outcomes := planner.Install(cmd.Context(), plan, cfg.Sources, cfg.Packages, execute, scriptFormat)
			for _, o := range outcomes {
				if o.Err != nil {
					fmt.Printf("%s: error: %v\n", o.Source, o.Err)
					continue
				}
				if o.Script != "" {
					fmt.Printf("# %s\n%s\n", o.Source, o.Script)
					continue
				}
				if o.Result != nil {
					fmt.Printf("%s: exit=%d duration=%s\n", o.Source, o.Result.Code, o.Result.Duration)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "run installs directly instead of printing scripts")
	cmd.Flags().StringVar(&format, "format", "sh", "script format: sh, powershell, batch")
	cmd.Flags().StringSliceVar(&policyDirs, "policy-dir", nil, "additional Rego policy directories/files")

	return cmd
}

// resolvePolicyDirs honors explicit --policy-dir flags first; with none
// given, it falls back to SANTA_POLICY_DIR, a comma-separated list of
// additional Rego policy directories/files layered onto the built-in
// command-safety bundle.
func resolvePolicyDirs(flagDirs []string) []string {
	if len(flagDirs) > 0 {
		return flagDirs
	}
	raw := os.Getenv("SANTA_POLICY_DIR")
	if raw == "" {
		return nil
	}
	var dirs []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func parseFormat(format string) (santa.ScriptFormat, error) {
	switch format {
	case "sh", "posix", "":
		return santa.FormatPosixSh, nil
	case "powershell", "ps1":
		return santa.FormatPowerShell, nil
	case "batch", "bat":
		return santa.FormatBatch, nil
	default:
		return 0, fmt.Errorf("unknown script format %q", format)
	}
}
