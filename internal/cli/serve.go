package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"brambling/internal/server"
)

func newServeCommand(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registration HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Server.Addr
			}
			gin.SetMode(app.Config.Server.Mode)

			srv := server.New(app.Reader, app.Writer, app.Log)
			srv.SetManifest(app.Manifest)
			srv.SetClock(app.Now)
			srv.SetSubmitFunc(server.BindJSONSubmission)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx, addr); err != nil {
				app.Log.Error().Err(err).Msg("Server failed")
				return NewExitError(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
