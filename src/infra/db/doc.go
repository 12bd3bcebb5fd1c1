// Package db provides database connection and transport resolution.
//
// This package is responsible for:
//   - Classifying the connection URL's host and resolving external
//     hostnames to IPv4 addresses before the driver ever dials
//   - Deriving the TLS policy per detected hosting environment
//   - PostgreSQL connection pool initialization with bounded size and
//     hard connect deadlines
//   - Connection health checks
//
// Example usage:
//
//	resolved := db.NewResolver(log).Resolve(ctx, cfg.Database.URL, cfg.Database.IsProduction())
//	pg, err := db.Open(ctx, resolved, log)
//	if err != nil {
//	    return err
//	}
//	defer pg.Close()
package db
