package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/dosecal/dosecal/pkg/cli/config"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/dosecal/dosecal/pkg/usecase"
	"github.com/dosecal/dosecal/pkg/utils/logging"
)

// cmdReconcile reports divergence between the calendar and the local
// medication store for one user. The two-step create can leave an event
// without a record behind; this command surfaces those for manual
// cleanup or relinking.
func cmdReconcile() *cli.Command {
	var userID string
	var calendarID string
	var accessToken string
	var repoCfg config.Repository
	var providerCfg config.Provider

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User ID to reconcile",
			Required:    true,
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "calendar-id",
			Usage:       "Calendar ID to inspect",
			Required:    true,
			Destination: &calendarID,
		},
		&cli.StringFlag{
			Name:        "access-token",
			Usage:       "Calendar provider access token of the user",
			Required:    true,
			Sources:     cli.EnvVars("DOSECAL_ACCESS_TOKEN"),
			Destination: &accessToken,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, providerCfg.Flags()...)

	return &cli.Command{
		Name:  "reconcile",
		Usage: "Report calendar events and medication records that lost their link",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			provider, err := providerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize calendar provider")
			}

			uc := usecase.New(repo, provider)

			uid := types.UserID(userID)
			tier := types.TierStandard
			if premium, err := uc.Subscription.PremiumStatus(ctx, uid); err != nil {
				return goerr.Wrap(err, "failed to resolve user tier")
			} else if premium {
				tier = types.TierPremium
			}

			overview, err := uc.Retrieval.MedicationOverview(ctx, uid, accessToken, types.CalendarID(calendarID), tier)
			if err != nil {
				return goerr.Wrap(err, "failed to build medication overview")
			}

			linked := len(overview.Events) - len(overview.OrphanEvents)
			color.New(color.FgGreen).Printf("linked: %d event(s) with a medication record\n", linked)

			if len(overview.OrphanEvents) == 0 && len(overview.OrphanMedications) == 0 {
				fmt.Println("no divergence found")
				return nil
			}

			if len(overview.OrphanEvents) > 0 {
				color.New(color.FgYellow, color.Bold).Printf("orphan events: %d (event exists, no medication record)\n", len(overview.OrphanEvents))
				for _, ev := range overview.OrphanEvents {
					fmt.Printf("  %s  %s  %s\n", ev.ID, ev.Start.Format("2006-01-02 15:04"), ev.Title)
				}
			}

			if len(overview.OrphanMedications) > 0 {
				color.New(color.FgRed, color.Bold).Printf("orphan medications: %d (record points at a cancelled event)\n", len(overview.OrphanMedications))
				for _, med := range overview.OrphanMedications {
					fmt.Printf("  %s  %s\n", med.ID, med.Name)
				}
			}

			return nil
		},
	}
}
