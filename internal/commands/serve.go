package commands

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tallyup-dev/tallyup/internal/ocr"
	"github.com/tallyup-dev/tallyup/internal/server"
)

func newServeCommand(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			extractor, err := ocr.New(ctx, a.cfg.OCR)
			if err != nil {
				a.log.Warn().Err(err).Msg("ocr disabled")
				extractor = ocr.Disabled{}
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv := server.New(server.Deps{
				Store:       a.store,
				Receipts:    a.receiptPipeline(),
				SMS:         a.smsPipeline(),
				OCR:         extractor,
				DefaultUser: a.userID(),
				MaxMessages: a.cfg.Import.MaxMessages,
				OCRTimeout:  a.cfg.OCR.Timeout,
				Log:         a.log,
			})
			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from tallyup.yaml)")

	return cmd
}
