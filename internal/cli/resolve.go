package cli

import (
	"github.com/spf13/cobra"

	"brambling/internal/router"
)

func newResolveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <event-slug> <order-code> <step>",
		Short: "Show where a request for a step would be routed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventSlug, orderCode, slug := args[0], args[1], args[2]

			w, err := app.workflow(eventSlug, orderCode)
			if err != nil {
				app.Printer.Error("Error: %v", err)
				return NewExitError(1)
			}

			decision, err := router.Resolve(w, slug)
			if err != nil {
				app.Printer.Error("Error: %v", err)
				return NewExitError(1)
			}

			step, verb := decision.Current, "serve"
			if decision.Redirect != nil {
				step, verb = decision.Redirect, "redirect"
			}
			path, err := router.Reverse(step.Location(), map[string]string{
				"event_slug": eventSlug,
				"order_code": orderCode,
			})
			if err != nil {
				app.Printer.Error("Error: %v", err)
				return NewExitError(1)
			}

			app.Printer.Info("%s %s %s", verb, step.Slug(), path)
			return nil
		},
	}
}
