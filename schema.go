package movierental

import "context"

// EnsureSchema creates the Movies, Customers and Rentals tables when they are
// missing. Running it against an existing schema changes nothing.
func (c *DB) EnsureSchema(ctx context.Context) error {
	queries := []string{
		c.dialect.createMoviesSql(),
		c.dialect.createCustomersSql(),
		// Rentals references the other two, so it goes last.
		c.dialect.createRentalsSql(),
	}
	for _, q := range queries {
		if _, err := c.db.ExecContext(ctx, q); err != nil {
			return wrapErr("create tables", err)
		}
	}
	return nil
}
