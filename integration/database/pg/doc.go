// Package pg provides PostgreSQL connection management with retry logic,
// health checking, and goose schema migrations over the pgx driver.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, cfg.ConnectionString, migrationsFS, "migrations"); err != nil {
//		return err
//	}
//
// Connect retries pings with exponential backoff so services starting
// alongside the database do not fail on transient refusals.
package pg
