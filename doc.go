// SPDX-License-Identifier: MIT

// Package movierental manages a small movie rental schema (Movies,
// Customers, Rentals) in a SQL database.  It creates the tables when they
// are missing and runs single-row inserts, reads, updates and deletes as
// parameterized statements.
//
// A thin dialect layer (PostgreSQL through pgx or lib/pq, and SQLite)
// supplies the DDL and placeholder differences.  The command-line front
// end lives under cmd/movierental; the data access is here.
//
// # Install
//
//	go get github.com/bcomnes/movierental@latest
//
// # Quick start
//
//	import (
//	    "context"
//
//	    "github.com/bcomnes/movierental"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    db, err := movierental.Open(ctx, movierental.Config{
//	        Driver: "pg",
//	        Conn:   os.Getenv("DATABASE_URL"),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer db.Close()
//
//	    db.EnsureSchema(ctx)
//	    id, _ := db.InsertMovie(ctx, "Inception", 2010, "Sci-Fi", "Christopher Nolan")
//	    for m, err := range db.ListMovies(ctx) {
//	        ...
//	    }
//	}
//
// # Configuration
//
// Config carries the driver and connection parameters:
//
//	Driver    "pg" (pgx, default), "postgres" (lib/pq), "sqlite3" or "sqlite"
//	Conn      full connection string, overrides the discrete fields
//	Host, Port, Database, User, Password, SSLMode
//
// Unset fields fall back to DefaultConfig, a local PostgreSQL database
// named movie_rental_db.  LoadConfig reads a JSON file, LoadEnv a dotenv
// file and Config.ApplyEnv the DATABASE_URL and DB_* variables.
//
// # Schema
//
//	Movies(movie_id, title, release_year, genre, director)
//	Customers(customer_id, first_name, last_name, email UNIQUE, phone_number)
//	Rentals(rental_id, customer_id → Customers ON DELETE CASCADE,
//	        movie_id → Movies ON DELETE CASCADE, rental_date, return_date)
//
// # Errors
//
// Every database failure is a *DatabaseError whose Kind separates
// connection problems, rejected statements and unique, foreign key and
// not-null violations.  A customer id that matches no row is not an error;
// UpdateCustomerEmail and RemoveCustomer report it through their found
// result.
package movierental
