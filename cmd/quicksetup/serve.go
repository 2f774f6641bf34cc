package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	quicksetup "github.com/goliatone/go-quicksetup"
	"github.com/goliatone/go-quicksetup/internal/tracing"
	"github.com/goliatone/go-quicksetup/pkg/handler"
	"github.com/goliatone/go-quicksetup/pkg/setup"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [document]",
		Short: "Serve a quick setup over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, shutdownTracing, err := tracing.Setup(ctx, tracing.Options{
				Endpoint:    a.cfg.Tracing.Endpoint,
				ServiceName: a.cfg.Tracing.ServiceName,
				Insecure:    a.cfg.Tracing.Insecure,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := shutdownTracing(shutdownCtx); err != nil {
					a.logger.Warn("tracing shutdown failed", zap.Error(err))
				}
			}()

			src, err := a.documentSource(args)
			if err != nil {
				return err
			}
			mux, err := a.serveMux(src)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:         a.cfg.Server.Addr,
				Handler:      mux,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("quicksetup listening",
					zap.String("addr", srv.Addr),
					zap.String("base_path", a.cfg.Server.BasePath),
					zap.String("source", src.Location()),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			a.logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// serveMux mounts the quick setup routes under the configured base path and
// the stylesheet under the assets path.
func (a *app) serveMux(src setup.Source) (*http.ServeMux, error) {
	assetsPath := "/" + strings.Trim(a.cfg.Server.AssetsPath, "/")

	orch, err := a.orchestrator(orchestratorOptions{
		renderer:   a.cfg.Render.Renderer,
		formAction: strings.TrimRight(a.cfg.Server.BasePath, "/") + "/stages",
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if _, err := handler.RegisterRoutes(mux, a.cfg.Server.BasePath,
		handler.WithOrchestrator(orch),
		handler.WithSource(src),
		handler.WithRenderer(a.cfg.Render.Renderer),
		handler.WithTheme(a.cfg.Render.ThemeName, a.cfg.Render.ThemeVariant),
		handler.WithLogger(a.logger),
		handler.WithMaxBodyBytes(a.cfg.Server.MaxBodyBytes),
	); err != nil {
		return nil, err
	}
	mux.Handle(assetsPath+"/", http.StripPrefix(assetsPath+"/", http.FileServerFS(quicksetup.AssetsFS())))
	return mux, nil
}
