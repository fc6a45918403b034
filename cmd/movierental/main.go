// Package main implements the movierental command-line tool. It connects
// with settings from flags, DATABASE_URL / DB_* environment variables, a
// .env file or a JSON config file, makes sure the rental tables exist and
// runs one command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bcomnes/movierental"
)

var versionString = movierental.Version + " (" + movierental.GitCommit + ")"

// Exit codes.
const (
	exitOK       = 0
	exitDBError  = 1
	exitUsageErr = 2
)

const helpText = `Usage:
  movierental [options] <command> [arguments]

Commands:
  insert <title> <year> <genre> <director> - Insert a movie
  show - Show all movies
  update <customer_id> <new_email> - Update a customer's email
  remove <customer_id> - Remove a customer from the database
  ping - Check the database connection

Options:`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("movierental", flag.ContinueOnError)
	fs.SetOutput(stderr)
	connStr := fs.String("conn", "", "Connection string. Overrides DATABASE_URL and the config file.")
	driver := fs.String("driver", "", "Database driver: pg, postgres or sqlite3 (default \"pg\")")
	configPath := fs.String("config", "", "Path to JSON configuration file (optional)")
	envFile := fs.String("env-file", ".env", "Path to a dotenv file loaded before reading the environment")
	helpFlag := fs.Bool("help", false, "Show help message")
	versionFlag := fs.Bool("version", false, "Show version")

	usage := func(w io.Writer) {
		fmt.Fprintln(w, helpText)
		fs.SetOutput(w)
		fs.PrintDefaults()
		fs.SetOutput(stderr)
	}
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsageErr
	}

	// Flags after the command would otherwise be taken as positional
	// arguments. Values such as "-ism" that name no flag pass through.
	for _, arg := range fs.Args() {
		if isFlag(fs, arg) {
			fmt.Fprintln(stderr, "Error: Flags must be specified before the command. Please reorder your arguments.")
			usage(stderr)
			return exitUsageErr
		}
	}

	if *helpFlag {
		usage(stdout)
		return exitOK
	}
	if *versionFlag {
		fmt.Fprintln(stdout, "movierental version:", versionString)
		return exitOK
	}

	logger := log.New(stderr, "movierental: ", 0)

	// ------------------------------------------------------------------
	// Configuration precedence:
	//   1. Flags supplied by the user
	//   2. Environment (including the dotenv file)
	//   3. Values from the JSON config file
	//   4. Built-in defaults
	// ------------------------------------------------------------------
	var cfg movierental.Config
	if *configPath != "" {
		if err := movierental.LoadConfig(*configPath, &cfg); err != nil {
			fmt.Fprintf(stderr, "Error loading config file: %v\n", err)
			return exitUsageErr
		}
	}
	if err := movierental.LoadEnv(*envFile); err != nil {
		fmt.Fprintf(stderr, "Error loading env file: %v\n", err)
		return exitUsageErr
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(stderr, "Error reading environment: %v\n", err)
		return exitUsageErr
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *connStr != "" {
		cfg.Conn = *connStr
	}

	cmd, parseErr := parseCommand(fs.Args())

	var code int
	withDB(cfg, logger, func(ctx context.Context, db *movierental.DB, err error) {
		if err != nil {
			logger.Printf("Error creating tables: %v", err)
			code = exitDBError
		} else {
			logger.Println("Tables created successfully.")
		}

		switch {
		case parseErr != nil:
			fmt.Fprintf(stderr, "Error: %v\n", parseErr)
			usage(stdout)
			code = exitUsageErr
		case cmd.kind == cmdHelp:
			usage(stdout)
			code = exitUsageErr
		case err != nil:
			// Schema is unusable; no command runs.
		default:
			if err := cmd.execute(ctx, db, stdout); err != nil {
				logger.Printf("%s: %v", errMessages[cmd.kind], err)
				code = exitDBError
			}
		}
	})
	return code
}

// withDB opens the connection, ensures the schema and hands both to f. A
// connection or schema failure is passed to f as err and db is nil in the
// connection case.
func withDB(cfg movierental.Config, logger *log.Logger, f func(ctx context.Context, db *movierental.DB, err error)) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := movierental.Open(ctx, cfg)
	if err != nil {
		f(ctx, nil, err)
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Printf("Error closing database: %v", err)
		}
	}()

	f(ctx, db, db.EnsureSchema(ctx))
}

// isFlag reports whether arg spells one of the flags defined on fs, as
// -name, --name or -name=value.
func isFlag(fs *flag.FlagSet, arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	name, _, _ = strings.Cut(name, "=")
	return name != "" && fs.Lookup(name) != nil
}
