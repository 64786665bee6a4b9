package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
	"github.com/dutyroster/rotation-engine/pkg/core/services"
)

// CoverCmd creates the cover command group for manual assignment overrides.
func CoverCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Manually add or remove a person on an assigned date",
	}

	cmd.AddCommand(coverAddCmd(app))
	cmd.AddCommand(coverRemoveCmd(app))
	return cmd
}

func coverAddCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <date> <person_id>",
		Short: "Add a person to the assignment covering a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}
			kind, err := shiftKindFlag(cmd)
			if err != nil {
				return err
			}

			result, err := services.AddPersonToDate(
				app.Ctx,
				app.Database,
				app.Database,
				app.Locks,
				app.Logger,
				app.Actor,
				scope,
				args[0],
				kind,
				args[1],
				app.Cfg.MinPersonnel,
			)
			if err != nil {
				return err
			}

			printOverride(result, fmt.Sprintf("✓ Added %s to %s", args[1], args[0]))
			return nil
		},
	}

	addScopeFlags(cmd)
	cmd.Flags().String("shift", "", "shift kind when a date has both a day and a night assignment (day|night)")
	return cmd
}

func coverRemoveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <date> <person_id>",
		Short: "Remove a person from the assignment covering a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}
			kind, err := shiftKindFlag(cmd)
			if err != nil {
				return err
			}

			result, err := services.RemovePersonFromDate(
				app.Ctx,
				app.Database,
				app.Database,
				app.Locks,
				app.Logger,
				app.Actor,
				scope,
				args[0],
				kind,
				args[1],
				app.Cfg.MinPersonnel,
			)
			if err != nil {
				return err
			}

			printOverride(result, fmt.Sprintf("✓ Removed %s from %s", args[1], args[0]))
			return nil
		},
	}

	addScopeFlags(cmd)
	cmd.Flags().String("shift", "", "shift kind when a date has both a day and a night assignment (day|night)")
	return cmd
}

func shiftKindFlag(cmd *cobra.Command) (model.ShiftKind, error) {
	raw, err := cmd.Flags().GetString("shift")
	if err != nil {
		return "", err
	}
	switch raw {
	case "":
		return "", nil
	case string(model.ShiftDay):
		return model.ShiftDay, nil
	case string(model.ShiftNight):
		return model.ShiftNight, nil
	default:
		return "", fmt.Errorf("invalid shift kind %q, expected day or night", raw)
	}
}

func printOverride(result *services.OverrideResult, headline string) {
	a := result.Assignment
	fmt.Printf("\n%s\n\n", headline)
	fmt.Printf("Assignment %s..%s (%s) in %s\n", a.StartDate, a.EndDate, a.Kind, result.Scope)
	fmt.Printf("On call: %s\n", strings.Join(a.PersonIDs, ", "))
	if a.Understaffed {
		fmt.Println("⚠️  Assignment is understaffed")
	}
	fmt.Println()
}
