package movierental

import "regexp"

// sqliteDialect implements dialect for SQLite. SERIAL has no meaning there,
// so keys are INTEGER PRIMARY KEY AUTOINCREMENT aliases of the rowid.
type sqliteDialect struct{}

var pgPlaceholder = regexp.MustCompile(`\$(\d+)`)

func (sqliteDialect) driverName() string {
	return "sqlite3"
}

// dsn falls back to Database as the file path when no Conn is given.
func (sqliteDialect) dsn(cfg Config) string {
	if cfg.Conn != "" {
		return sqliteDSN(cfg.Conn)
	}
	return sqliteDSN(cfg.Database)
}

// rebind rewrites $n placeholders to SQLite's numbered ?n form.
func (sqliteDialect) rebind(query string) string {
	return pgPlaceholder.ReplaceAllString(query, "?$1")
}

func (sqliteDialect) createMoviesSql() string {
	return `
      CREATE TABLE IF NOT EXISTS Movies (
        movie_id INTEGER PRIMARY KEY AUTOINCREMENT,
        title VARCHAR(255) NOT NULL,
        release_year INT NOT NULL,
        genre VARCHAR(100) NOT NULL,
        director VARCHAR(255) NOT NULL
      );`
}

func (sqliteDialect) createCustomersSql() string {
	return `
      CREATE TABLE IF NOT EXISTS Customers (
        customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
        first_name VARCHAR(100) NOT NULL,
        last_name VARCHAR(100) NOT NULL,
        email VARCHAR(255) UNIQUE NOT NULL,
        phone_number TEXT NOT NULL
      );`
}

func (sqliteDialect) createRentalsSql() string {
	return `
      CREATE TABLE IF NOT EXISTS Rentals (
        rental_id INTEGER PRIMARY KEY AUTOINCREMENT,
        customer_id INT REFERENCES Customers(customer_id) ON DELETE CASCADE,
        movie_id INT REFERENCES Movies(movie_id) ON DELETE CASCADE,
        rental_date DATE NOT NULL,
        return_date DATE
      );`
}

func (sqliteDialect) nowSql() string {
	return `SELECT CURRENT_TIMESTAMP AS now;`
}
