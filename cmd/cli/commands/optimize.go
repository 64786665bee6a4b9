package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dutyroster/rotation-engine/pkg/core/services"
)

// OptimizeCmd creates the optimize command.
func OptimizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize <start_date> <end_date>",
		Short: "Apply the load recommendations to the rotation queue",
		Long:  "Analyze the period like stats, then reorder the queue so underloaded people lead and overloaded people trail. Viewing and applying recommendations are separate steps; this is the applying one.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := services.OptimizeRotation(
				app.Ctx,
				app.Database,
				app.Database,
				app.Locks,
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

			if !result.Applied {
				fmt.Printf("\n✓ Rotation for %s is already balanced - queue unchanged\n\n", result.Scope)
				return nil
			}

			fmt.Printf("\n✓ Rotation queue optimized for %s\n\n", result.Scope)
			fmt.Printf("Before: %s\n", strings.Join(result.OldOrder, " → "))
			fmt.Printf("After:  %s\n\n", strings.Join(result.NewOrder, " → "))
			fmt.Println("Applied recommendations:")
			for _, rec := range result.Analysis.Recommendations {
				fmt.Printf("  • %s\n", rec)
			}
			fmt.Println()

			return nil
		},
	}

	addScopeFlags(cmd)
	return cmd
}
