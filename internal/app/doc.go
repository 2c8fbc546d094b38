// Package app wires the dataset server together: configuration, paths,
// telemetry, services, router and HTTP server.
//
// # Initialization Flow
//
//	1. Resolve and create the data, reports, cache and logs directories
//	2. Initialize OpenTelemetry and the service metrics
//	3. Build the source loader, dataset service and health service
//	4. Set up middleware and routes
//	5. Create the HTTP server
//
// # Usage
//
//	a, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return a.Run(ctx)
//
// Run returns once ctx is canceled and the server and telemetry providers
// have shut down. The package never calls os.Exit.
package app
