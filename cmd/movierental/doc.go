// SPDX-License-Identifier: MIT

// Package main provides movierental, a command-line tool for the movie
// rental database.
//
// # Install
//
//	go install github.com/bcomnes/movierental/cmd/movierental@latest
//
// # Synopsis
//
//	movierental [options] <command> [arguments]
//
// Every invocation first creates the Movies, Customers and Rentals tables
// if they are missing, then runs at most one command.
//
// # Commands
//
//	insert <title> <year> <genre> <director>  Insert a movie and print its id.
//	show                                      Print every movie, one per line.
//	update <customer_id> <new_email>          Change a customer's email.
//	remove <customer_id>                      Delete a customer and their rentals.
//	ping                                      Print the server time.
//
// Any other verb, or a known verb with the wrong number of arguments,
// prints the help text and touches no rows.
//
// # Global flags
//
//	-conn string      Connection string. Overrides $DATABASE_URL and "conn" in -config.
//	-driver string    pg (pgx), postgres (lib/pq) or sqlite3 (default "pg").
//	-config string    Optional JSON file that mirrors movierental.Config.
//	-env-file string  Dotenv file read before the environment (default ".env").
//	-help             Show built-in help.
//	-version          Print the movierental version.
//
// Flags must come before the command.
//
// *Precedence:* flags ➜ environment ➜ -config ➜ built-in defaults
//
// # Environment
//
//	DATABASE_URL        Full connection string.
//	MOVIERENTAL_DRIVER  Driver name.
//	DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASS
//	                    Discrete connection settings used when no
//	                    connection string is given.
//
// Without any configuration the tool connects to
//
//	host=localhost port=5432 dbname=movie_rental_db user=postgres
//
// # Examples
//
//	movierental insert "Inception" 2010 "Sci-Fi" "Christopher Nolan"
//	movierental show
//	movierental update 3 new@example.com
//	movierental remove 3
//	movierental -driver sqlite3 -conn ./rentals.db show
//
// # Exit status
//
//	0  success, including "Customer not found."
//	1  the database could not be reached or rejected a statement
//	2  usage error: help was shown or a numeric argument did not parse
package main
