// Package bootstrap assembles a typed HTTP client application from a
// config.ClientConfig.
//
// New initialises logging and registers the telemetry provider and the HTTP
// adapter as components. Start brings them up in order and builds the
// rest.Client; Shutdown stops them in reverse.
//
//	cfg, _ := config.Load("billing-worker")
//	app, err := bootstrap.New(cfg)
//	if err != nil {
//	    return err
//	}
//	return app.RunTask(ctx, func(ctx context.Context, c *rest.Client) error {
//	    _, err := rest.Get(c, "/invoices/7", invoiceDecoder)(ctx)
//	    return err
//	})
package bootstrap
