// Package server wraps http.Server with graceful shutdown and option-based
// configuration.
//
//	srv := server.New(":8080", server.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//
// Start blocks until the context is canceled; Run wraps Start/Stop for use
// with errgroup so cancellation drains in-flight requests before exit.
package server
