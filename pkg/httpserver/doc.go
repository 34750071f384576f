// Package httpserver runs an http.Handler with graceful shutdown.
//
//	srv := httpserver.New(httpserver.WithConfig(cfg.HTTP), httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
//
// Run binds the listener before serving, so a bad address fails immediately
// with ErrStart. Cancelling ctx triggers http.Server.Shutdown bounded by the
// shutdown timeout. HealthHandler provides a liveness/readiness endpoint.
package httpserver
