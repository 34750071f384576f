package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/regform/pkg/config"
	"github.com/dmitrymomot/regform/pkg/form"
	"github.com/dmitrymomot/regform/pkg/formserver"
	"github.com/dmitrymomot/regform/pkg/httpserver"
	"github.com/dmitrymomot/regform/pkg/logger"
	"github.com/dmitrymomot/regform/pkg/refdata"
)

const serviceName = "regform"

func newServeCommand() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve registration forms over HTTP",
		Long: `Serve registration forms to datastar clients until interrupted.

Configuration is read from the environment, layered over the given .env
files (./.env when none is given). See HTTP_ADDR, APP_ENV, LOG_LEVEL,
FORM_SUCCESS_DISMISS_DELAY, FORM_REFERENCE_FILE and FORM_SESSION_TTL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg config.Config
			if err := config.Load(&cfg, envFiles...); err != nil {
				return err
			}
			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger.SetAsDefault(log)
			return serve(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "env files to load, later files win")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	srv, forms, err := newServer(cfg, log)
	if err != nil {
		return err
	}
	defer forms.Close()

	go forms.RunJanitor(ctx)
	return srv.Run(ctx, forms.Handler())
}

// newServer wires the form host for cfg without starting it.
func newServer(cfg config.Config, log *slog.Logger) (*httpserver.Server, *formserver.Server, error) {
	ref, err := loadReference(cfg.Form.ReferenceFile)
	if err != nil {
		return nil, nil, err
	}

	forms := formserver.New(
		formserver.WithLogger(log),
		formserver.WithSessionTTL(cfg.Form.SessionTTL),
		formserver.WithFormOptions(
			form.WithReference(ref),
			form.WithSuccessMessage(cfg.Form.SuccessMessage),
			form.WithDismissDelay(cfg.Form.DismissDelay),
		),
	)

	srv := httpserver.New(
		httpserver.WithConfig(cfg.HTTP),
		httpserver.WithLogger(log),
	)

	log.Info("regform configured",
		slog.String("env", cfg.Env),
		slog.String("addr", cfg.HTTP.Addr),
		slog.Int("countries", len(ref.Catalog.Countries())),
		slog.Int("disposable_domains", ref.Disposable.Len()),
	)
	return srv, forms, nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithOutput(w),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	}
	if cfg.Log.Level != "" {
		level, err := logger.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	if cfg.Log.Format != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.Log.Format)))
	}

	return logger.New(opts...), nil
}

func loadReference(path string) (*refdata.Reference, error) {
	if path == "" {
		return refdata.Default(), nil
	}
	return refdata.LoadFile(path)
}
