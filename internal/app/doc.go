// Package app assembles the heatmap HTTP server: configuration, logging,
// telemetry, services and the chi router, plus its lifecycle.
//
//	a, err := app.NewApplication(cfg, logger)
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	err = a.Run(ctx)
package app
