package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	healthuc "github.com/kailas-cloud/fanout/internal/usecase/health"
)

func healthCmd(open opener, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check store and cache connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := open(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer svc.close()

			report := svc.health.Check(cmd.Context())
			w := cmd.OutOrStdout()

			names := make([]string, 0, len(report.Checks))
			for name := range report.Checks {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprintf(w, "status: %s\n", report.Status)
			for _, name := range names {
				fmt.Fprintf(w, "  %s: %s\n", name, report.Checks[name])
			}

			if report.Status != healthuc.Healthy {
				return fmt.Errorf("unhealthy: %s", report.Status)
			}
			return nil
		},
	}
}
