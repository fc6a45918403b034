package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bcomnes/movierental"
)

type commandKind int

const (
	cmdHelp commandKind = iota
	cmdInsert
	cmdShow
	cmdUpdate
	cmdRemove
	cmdPing
)

// command is a fully parsed invocation.
type command struct {
	kind       commandKind
	title      string
	year       int
	genre      string
	director   string
	customerID int64
	email      string
}

// parseCommand maps positional arguments to a command. A wrong verb or a
// wrong argument count selects help. A numeric argument that does not parse
// selects help and returns an error wrapping movierental.ErrBadArgument.
func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{kind: cmdHelp}, nil
	}
	switch args[0] {
	case "insert":
		if len(args) != 5 {
			return command{kind: cmdHelp}, nil
		}
		year, err := strconv.Atoi(args[2])
		if err != nil {
			return command{kind: cmdHelp}, fmt.Errorf("%w: invalid year: %s", movierental.ErrBadArgument, args[2])
		}
		return command{kind: cmdInsert, title: args[1], year: year, genre: args[3], director: args[4]}, nil
	case "show", "list":
		if len(args) != 1 {
			return command{kind: cmdHelp}, nil
		}
		return command{kind: cmdShow}, nil
	case "update":
		if len(args) != 3 {
			return command{kind: cmdHelp}, nil
		}
		id, err := parseCustomerID(args[1])
		if err != nil {
			return command{kind: cmdHelp}, err
		}
		return command{kind: cmdUpdate, customerID: id, email: args[2]}, nil
	case "remove":
		if len(args) != 2 {
			return command{kind: cmdHelp}, nil
		}
		id, err := parseCustomerID(args[1])
		if err != nil {
			return command{kind: cmdHelp}, err
		}
		return command{kind: cmdRemove, customerID: id}, nil
	case "ping":
		if len(args) != 1 {
			return command{kind: cmdHelp}, nil
		}
		return command{kind: cmdPing}, nil
	default:
		return command{kind: cmdHelp}, nil
	}
}

func parseCustomerID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid customer_id: %s", movierental.ErrBadArgument, s)
	}
	return id, nil
}

// errMessages are the prefixes logged when a command fails.
var errMessages = map[commandKind]string{
	cmdInsert: "Error inserting movie",
	cmdShow:   "Error displaying movies",
	cmdUpdate: "Error updating customer email",
	cmdRemove: "Error removing customer",
	cmdPing:   "Connection failed",
}

// execute runs a single record operation and prints its outcome to out.
func (c command) execute(ctx context.Context, db *movierental.DB, out io.Writer) error {
	switch c.kind {
	case cmdInsert:
		id, err := db.InsertMovie(ctx, c.title, c.year, c.genre, c.director)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Movie added with ID: %d\n", id)
	case cmdShow:
		for m, err := range db.ListMovies(ctx) {
			if err != nil {
				return err
			}
			fmt.Fprintln(out, m)
		}
	case cmdUpdate:
		email, found, err := db.UpdateCustomerEmail(ctx, c.customerID, c.email)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintln(out, "Customer not found.")
			return nil
		}
		fmt.Fprintf(out, "Customer's email updated to: %s\n", email)
	case cmdRemove:
		found, err := db.RemoveCustomer(ctx, c.customerID)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintln(out, "Customer not found.")
			return nil
		}
		fmt.Fprintln(out, "Customer and rental history removed.")
	case cmdPing:
		now, err := db.Ping(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Connection successful: %s\n", now.Format("2006-01-02 15:04:05 -0700"))
	default:
		return errors.New("help is not a database command")
	}
	return nil
}
