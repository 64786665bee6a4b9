package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/internal/config"
	"github.com/dutyroster/rotation-engine/pkg/core/calendar"
	"github.com/dutyroster/rotation-engine/pkg/core/model"
	"github.com/dutyroster/rotation-engine/pkg/postgres"
	"github.com/dutyroster/rotation-engine/pkg/scopelock"
)

// AppContext holds the application dependencies shared by all commands.
type AppContext struct {
	Ctx      context.Context
	Cfg      *config.Config
	Logger   *zap.Logger
	Database *postgres.DB
	Locks    *scopelock.Registry
	Calendar *calendar.Calendar

	// Actor is the person running the command, resolved from --actor.
	// Every operation is authorized against the actor's role and position.
	Actor model.Person
}

// addScopeFlags registers the scope-selection flags shared by all commands.
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String("site", "", "Site ID of the target scope (required)")
	cmd.Flags().String("sector", "", "Sector ID of the target scope (required)")
	cmd.Flags().String("service", "", "Service ID of the target scope (omit for sector-level engineer rotation)")
	cmd.MarkFlagRequired("site")
	cmd.MarkFlagRequired("sector")
}

// scopeFromFlags builds the target scope from the scope-selection flags.
func scopeFromFlags(cmd *cobra.Command) (model.Scope, error) {
	site, _ := cmd.Flags().GetString("site")
	sector, _ := cmd.Flags().GetString("sector")
	service, _ := cmd.Flags().GetString("service")
	if site == "" || sector == "" {
		return model.Scope{}, fmt.Errorf("both --site and --sector are required")
	}
	return model.Scope{SiteID: site, SectorID: sector, ServiceID: service}, nil
}
