package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/pkg/core/services"
)

// QueueCmd creates the queue command group: show, reorder, move-to-end.
func QueueCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and reorder a scope's rotation queue",
	}

	cmd.AddCommand(queueShowCmd(app))
	cmd.AddCommand(queueReorderCmd(app))
	cmd.AddCommand(queueMoveToEndCmd(app))

	return cmd
}

func queueShowCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the rotation queue (initializes from directory order on first read)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := services.GetRotationQueue(
				app.Ctx, app.Database, app.Database, app.Locks, app.Logger, app.Actor, scope)
			if err != nil {
				return err
			}

			printQueue(result)
			return nil
		},
	}
	addScopeFlags(cmd)
	return cmd
}

func queueReorderCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder <person_id> [person_id ...]",
		Short: "Replace the queue order (must be an exact permutation of the current members)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			app.Logger.Debug("queue reorder command",
				zap.String("scope", scope.Key()),
				zap.Int("submitted", len(args)))

			result, err := services.ReorderRotation(
				app.Ctx, app.Database, app.Database, app.Locks, app.Logger, app.Actor, scope, args)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Queue reordered for %s\n\n", result.Scope)
			printQueue(result)
			return nil
		},
	}
	addScopeFlags(cmd)
	return cmd
}

func queueMoveToEndCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move-to-end <person_id>",
		Short: "Send one person to the back of the rotation queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := services.MoveToEndOfRotation(
				app.Ctx, app.Database, app.Database, app.Locks, app.Logger, app.Actor, scope, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s moved to end of rotation for %s\n\n", args[0], result.Scope)
			printQueue(result)
			return nil
		},
	}
	addScopeFlags(cmd)
	return cmd
}

func printQueue(result *services.QueueResult) {
	names := make(map[string]string, len(result.Eligible))
	for _, p := range result.Eligible {
		names[p.ID] = p.FullName()
	}

	fmt.Printf("Rotation queue for %s (%d people):\n", result.Scope, len(result.Order))
	for i, id := range result.Order {
		fmt.Printf("  %2d. %s (%s)\n", i+1, names[id], id)
	}
	if len(result.PrunedPersonIDs) > 0 {
		fmt.Printf("\nℹ Pruned (no longer eligible): %s\n", strings.Join(result.PrunedPersonIDs, ", "))
	}
	fmt.Println()
}
