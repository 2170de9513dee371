package cli

import (
	"github.com/spf13/cobra"
)

func newClearCartsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-carts <event-slug>",
		Short: "Delete reserved items from expired carts",
		Long: `Delete reserved items from every cart of the event that was started
longer ago than the event's cart timeout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventSlug := args[0]

			removed, err := app.Writer.ClearExpiredCarts(eventSlug, app.Now())
			if err != nil {
				app.Printer.Error("Error: %v", err)
				return NewExitError(1)
			}

			app.Log.Info().Str("event", eventSlug).Int("removed", removed).Msg("Cleared expired carts")
			app.Printer.Success("Cleared %d expired item(s) from %s", removed, eventSlug)
			return nil
		},
	}
}
