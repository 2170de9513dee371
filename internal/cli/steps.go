package cli

import (
	"github.com/spf13/cobra"

	"brambling/internal/config"
	"brambling/internal/router"
)

func newStepsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "steps <event-slug> <order-code>",
		Short: "Show the registration workflow of an order",
		Long: `Show every step of an order's registration workflow with its state:
  ✓ completed   → accessible   · locked   - skipped`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventSlug, orderCode := args[0], args[1]

			w, err := app.workflow(eventSlug, orderCode)
			if err != nil {
				app.Printer.Error("Error: %v", err)
				return NewExitError(1)
			}

			ctx := w.Context()
			app.Printer.Title("%s: order %s", ctx.Event.Name, ctx.Order.Code)
			app.Printer.Plan(router.Plan(w), app.Config.Output.ShowInactive)

			active := w.ActiveSteps()
			if len(active) > 0 && active[len(active)-1].IsCompleted() {
				msg, err := app.Config.CompletionMessage(config.MessageData{
					EventName: ctx.Event.Name,
					OrderCode: ctx.Order.Code,
				})
				if err != nil {
					app.Printer.Error("Error: %v", err)
					return NewExitError(1)
				}
				app.Printer.Success("%s", msg)
				return nil
			}

			if current, ok := router.Current(w); ok {
				app.Printer.Info("Next: %s", current.Name())
			}
			return nil
		},
	}
}
