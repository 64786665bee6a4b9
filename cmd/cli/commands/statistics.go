package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dutyroster/rotation-engine/pkg/core/services"
)

// StatisticsCmd creates the stats command.
func StatisticsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <start_date> <end_date>",
		Short: "Analyze per-person load and imbalance over a period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := services.GetStatistics(
				app.Ctx,
				app.Database,
				app.Database,
				app.Logger,
				app.Actor,
				scope,
				args[0],
				args[1],
				app.Cfg.MinPersonnel,
			)
			if err != nil {
				return err
			}

			analysis := result.Analysis
			fmt.Printf("\n📊 Rotation statistics for %s (%s .. %s)\n\n", result.Scope, result.StartDate, result.EndDate)
			fmt.Printf("Assignments: %d\n", analysis.TotalAssignments)
			fmt.Printf("Average:     %.2f per person\n", analysis.Average)
			if analysis.LastGeneratedAt != "" {
				fmt.Printf("Generated:   %s\n", analysis.LastGeneratedAt)
			}
			fmt.Println()

			names := make(map[string]string, len(result.Eligible))
			ids := make([]string, 0, len(result.Eligible))
			for _, p := range result.Eligible {
				names[p.ID] = p.FullName()
				ids = append(ids, p.ID)
			}
			sort.Slice(ids, func(i, j int) bool {
				return analysis.PerPersonLoad[ids[i]] > analysis.PerPersonLoad[ids[j]]
			})

			under := make(map[string]bool, len(analysis.Underloaded))
			for _, id := range analysis.Underloaded {
				under[id] = true
			}
			over := make(map[string]bool, len(analysis.Overloaded))
			for _, id := range analysis.Overloaded {
				over[id] = true
			}

			fmt.Println("Per-person load:")
			for _, id := range ids {
				marker := ""
				if under[id] {
					marker = "  ▽ underloaded"
				} else if over[id] {
					marker = "  △ overloaded"
				}
				fmt.Printf("  %-28s %3d%s\n", names[id], analysis.PerPersonLoad[id], marker)
			}
			fmt.Println()

			fmt.Println("Recommendations:")
			for _, rec := range analysis.Recommendations {
				fmt.Printf("  • %s\n", rec)
			}
			fmt.Println()

			return nil
		},
	}

	addScopeFlags(cmd)
	return cmd
}
