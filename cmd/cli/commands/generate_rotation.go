package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/pkg/core/services"
)

// GenerateRotationCmd creates the generate command.
func GenerateRotationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <start_date> <end_date>",
		Short: "Generate the on-call rotation for a scope and date range",
		Long:  "Enumerate the weekend and holiday dates of the range and assign people from the rotation queue, balancing load round-robin.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, endDate := args[0], args[1]
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			minPersonnel, _ := cmd.Flags().GetInt("min-personnel")
			if minPersonnel == 0 {
				minPersonnel = app.Cfg.MinPersonnel
			}

			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("generate command",
				zap.String("scope", scope.Key()),
				zap.Bool("dry_run", dryRun))

			result, err := services.GenerateRotation(
				app.Ctx,
				app.Database,
				app.Database,
				app.Locks,
				app.Calendar,
				app.Logger,
				app.Actor,
				scope,
				startDate,
				endDate,
				minPersonnel,
				app.Cfg.DayNightHolidaySplit,
				dryRun,
			)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			fmt.Printf("\n✓ Rotation generated for %s\n\n", result.Scope)
			fmt.Printf("Range:        %s .. %s\n", result.StartDate, result.EndDate)
			fmt.Printf("Assignments:  %d\n", len(result.Assignments))
			if dryRun {
				fmt.Printf("Mode:         DRY RUN (not saved)\n")
			}
			fmt.Println()

			for _, a := range result.Assignments {
				span := a.StartDate
				if a.EndDate != a.StartDate {
					span = fmt.Sprintf("%s..%s", a.StartDate, a.EndDate)
				}
				people := "—"
				if len(a.PersonIDs) > 0 {
					people = strings.Join(a.PersonIDs, ", ")
				}
				marker := ""
				if a.Understaffed {
					marker = "  ⚠ understaffed"
				}
				fmt.Printf("  %-22s %-8s %s%s\n", span, a.Kind, people, marker)
			}
			fmt.Println()

			if len(result.UnderstaffedDates) > 0 {
				fmt.Printf("⚠ Understaffed dates (%d): %s\n",
					len(result.UnderstaffedDates), strings.Join(result.UnderstaffedDates, ", "))
				fmt.Println("  Partial coverage was recorded; review availability before the duty dates.")
			}
			if len(result.PrunedPersonIDs) > 0 {
				fmt.Printf("ℹ Pruned from queue (no longer eligible): %s\n",
					strings.Join(result.PrunedPersonIDs, ", "))
			}
			fmt.Printf("Queue after run: %s\n", strings.Join(result.Queue, " → "))

			return nil
		},
	}

	addScopeFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Plan without saving assignments")
	cmd.Flags().Int("min-personnel", 0, "Personnel target per assignment (defaults to config)")

	return cmd
}
