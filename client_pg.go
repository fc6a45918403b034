package movierental

// pgDialect serves both PostgreSQL drivers: pgx ("pg") and lib/pq ("postgres").
type pgDialect struct {
	driver string
}

func (d pgDialect) driverName() string {
	return d.driver
}

func (d pgDialect) dsn(cfg Config) string {
	if cfg.Conn != "" {
		return cfg.Conn
	}
	return cfg.keyValueDSN()
}

// rebind is a no-op; statements are written with $n placeholders.
func (d pgDialect) rebind(query string) string {
	return query
}

func (d pgDialect) createMoviesSql() string {
	return `
      CREATE TABLE IF NOT EXISTS Movies (
        movie_id SERIAL PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        release_year INT NOT NULL,
        genre VARCHAR(100) NOT NULL,
        director VARCHAR(255) NOT NULL
      );`
}

func (d pgDialect) createCustomersSql() string {
	return `
      CREATE TABLE IF NOT EXISTS Customers (
        customer_id SERIAL PRIMARY KEY,
        first_name VARCHAR(100) NOT NULL,
        last_name VARCHAR(100) NOT NULL,
        email VARCHAR(255) UNIQUE NOT NULL,
        phone_number TEXT NOT NULL
      );`
}

func (d pgDialect) createRentalsSql() string {
	return `
      CREATE TABLE IF NOT EXISTS Rentals (
        rental_id SERIAL PRIMARY KEY,
        customer_id INT REFERENCES Customers(customer_id) ON DELETE CASCADE,
        movie_id INT REFERENCES Movies(movie_id) ON DELETE CASCADE,
        rental_date DATE NOT NULL,
        return_date DATE
      );`
}

func (d pgDialect) nowSql() string {
	return `SELECT NOW() AS now;`
}
