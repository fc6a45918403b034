package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bcomnes/movierental"
)

// -----------------------------------------------------------------------------
// Helper process setup
// -----------------------------------------------------------------------------

// TestMain triggers helper process mode when GO_HELPER_PROCESS is set.
func TestMain(m *testing.M) {
	if os.Getenv("GO_HELPER_PROCESS") == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runCLI runs the current test binary as a helper process running the CLI
// and returns its combined output and exit code.
func runCLI(args []string, extraEnv ...string) (string, int) {
	cmd := exec.Command(os.Args[0], args...)
	cmd.Env = append(os.Environ(), "GO_HELPER_PROCESS=1")
	cmd.Env = append(cmd.Env, extraEnv...)
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), exitErr.ExitCode()
	}
	return string(out), 0
}

// runInProcess calls run against a SQLite file and returns stdout, stderr and the exit code.
func runInProcess(t *testing.T, dbPath string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-driver", "sqlite3", "-conn", dbPath, "-env-file", filepath.Join(t.TempDir(), ".env")}, args...)
	code := run(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// openDB opens the same SQLite file the CLI uses so tests can seed and inspect rows.
func openDB(t *testing.T, dbPath string) *movierental.DB {
	t.Helper()
	ctx := context.Background()
	db, err := movierental.Open(ctx, movierental.Config{Driver: "sqlite3", Conn: dbPath})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *movierental.DB, email string) int64 {
	t.Helper()
	res, err := db.Query(context.Background(), `
      INSERT INTO Customers (first_name, last_name, email, phone_number)
      VALUES ($1, $2, $3, $4)
      RETURNING customer_id;`, "Test", "Customer", email, "555-0100")
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return res.Rows[0]["customer_id"].(int64)
}

func rowCount(t *testing.T, db *movierental.DB, table string) int64 {
	t.Helper()
	res, err := db.Query(context.Background(), "SELECT COUNT(*) AS n FROM "+table+";")
	if err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return res.Rows[0]["n"].(int64)
}

// -----------------------------------------------------------------------------
// Flag handling
// -----------------------------------------------------------------------------

// TestCLIHelp checks that -help prints usage info.
func TestCLIHelp(t *testing.T) {
	out, code := runCLI([]string{"-help"})
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected help usage info, got:\n%s", out)
	}
	if code != exitOK {
		t.Errorf("expected exit code %d, got %d", exitOK, code)
	}
}

// TestCLIVersion checks that -version prints version string.
func TestCLIVersion(t *testing.T) {
	out, _ := runCLI([]string{"-version"})
	if !strings.Contains(out, "movierental version:") {
		t.Errorf("expected version info, got:\n%s", out)
	}
}

// TestFlagOrderingSafe verifies that flags placed after the command are rejected.
func TestFlagOrderingSafe(t *testing.T) {
	out, code := runCLI([]string{"show", "-conn", "dummy"})
	expected := "Error: Flags must be specified before the command. Please reorder your arguments."
	if !strings.Contains(out, expected) {
		t.Errorf("expected flag ordering error message, got:\n%s", out)
	}
	if code != exitUsageErr {
		t.Errorf("expected exit code %d, got %d", exitUsageErr, code)
	}
}

func TestIsFlag(t *testing.T) {
	tests := []struct {
		arg      string
		expected bool
	}{
		{"-conn", true},
		{"--driver=sqlite3", true},
		{"-help", true},
		{"-ism", false},
		{"-M-", false},
		{"-5", false},
		{"-", false},
		{"--", false},
		{"Inception", false},
	}
	for _, tt := range tests {
		fs := flag.NewFlagSet("movierental", flag.ContinueOnError)
		fs.String("conn", "", "")
		fs.String("driver", "", "")
		fs.Bool("help", false, "")
		if got := isFlag(fs, tt.arg); got != tt.expected {
			t.Errorf("isFlag(%q): expected %v, got %v", tt.arg, tt.expected, got)
		}
	}
}

// TestCLIConfigLoadError checks that a missing config file is reported.
func TestCLIConfigLoadError(t *testing.T) {
	out, _ := runCLI([]string{"-config", "nonexistent.json", "show"})
	if !strings.Contains(out, "Error loading config file:") {
		t.Errorf("expected config file loading error, got:\n%s", out)
	}
}

// TestCLIUnsupportedDriver checks that a bad driver is logged and fails the run.
func TestCLIUnsupportedDriver(t *testing.T) {
	out, code := runCLI([]string{"-driver", "oracle", "show"})
	if !strings.Contains(out, "Error creating tables:") {
		t.Errorf("expected table creation error, got:\n%s", out)
	}
	if code != exitDBError {
		t.Errorf("expected exit code %d, got %d", exitDBError, code)
	}
}

// -----------------------------------------------------------------------------
// Commands against SQLite
// -----------------------------------------------------------------------------

func TestCLIInsertAndShow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")

	out, errOut, code := runInProcess(t, dbPath, "insert", "Inception", "2010", "Sci-Fi", "Christopher Nolan")
	if code != exitOK {
		t.Fatalf("insert failed with %d: %s", code, errOut)
	}
	if out != "Movie added with ID: 1\n" {
		t.Errorf("unexpected insert output %q", out)
	}
	if !strings.Contains(errOut, "Tables created successfully.") {
		t.Errorf("expected schema message on stderr, got %q", errOut)
	}

	out, errOut, code = runInProcess(t, dbPath, "show")
	if code != exitOK {
		t.Fatalf("show failed with %d: %s", code, errOut)
	}
	expected := "ID: 1, Title: Inception, Year: 2010, Genre: Sci-Fi, Director: Christopher Nolan\n"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
}

// TestCLIInsertDashValues checks that values starting with a dash are
// inserted when they do not name a flag.
func TestCLIInsertDashValues(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")

	out, errOut, code := runInProcess(t, dbPath, "insert", "-ism", "2001", "Drama", "-M-")
	if code != exitOK {
		t.Fatalf("insert failed with %d: %s", code, errOut)
	}
	if out != "Movie added with ID: 1\n" {
		t.Errorf("unexpected insert output %q", out)
	}

	out, _, _ = runInProcess(t, dbPath, "show")
	expected := "ID: 1, Title: -ism, Year: 2001, Genre: Drama, Director: -M-\n"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
}

func TestCLIShowEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")

	out, errOut, code := runInProcess(t, dbPath, "show")
	if code != exitOK {
		t.Fatalf("show failed with %d: %s", code, errOut)
	}
	if out != "" {
		t.Errorf("expected no output for an empty table, got %q", out)
	}
}

func TestCLIUpdate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")
	db := openDB(t, dbPath)
	id := seedCustomer(t, db, "old@example.com")
	other := seedCustomer(t, db, "taken@example.com")

	out, _, code := runInProcess(t, dbPath, "update", itoa(id), "new@example.com")
	if code != exitOK || out != "Customer's email updated to: new@example.com\n" {
		t.Errorf("unexpected update result %d %q", code, out)
	}

	out, _, code = runInProcess(t, dbPath, "update", "999999", "ghost@example.com")
	if code != exitOK || out != "Customer not found.\n" {
		t.Errorf("unexpected not-found result %d %q", code, out)
	}

	out, errOut, code := runInProcess(t, dbPath, "update", itoa(id), "taken@example.com")
	if code != exitDBError {
		t.Errorf("expected exit code %d for duplicate email, got %d", exitDBError, code)
	}
	if out != "" || !strings.Contains(errOut, "Error updating customer email:") {
		t.Errorf("unexpected duplicate email output: stdout %q stderr %q", out, errOut)
	}

	cust, _, err := db.GetCustomer(context.Background(), other)
	if err != nil || cust.Email != "taken@example.com" {
		t.Errorf("expected other customer untouched, got %+v (%v)", cust, err)
	}
}

func TestCLIRemove(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")
	db := openDB(t, dbPath)
	ctx := context.Background()
	id := seedCustomer(t, db, "leaving@example.com")
	movie, err := db.InsertMovie(ctx, "Heat", 1995, "Crime", "Michael Mann")
	if err != nil {
		t.Fatalf("InsertMovie failed: %v", err)
	}
	if _, err := db.Exec(ctx, `INSERT INTO Rentals (customer_id, movie_id, rental_date) VALUES ($1, $2, $3);`, id, movie, "2024-03-01"); err != nil {
		t.Fatalf("failed to seed rental: %v", err)
	}

	out, _, code := runInProcess(t, dbPath, "remove", itoa(id))
	if code != exitOK || out != "Customer and rental history removed.\n" {
		t.Errorf("unexpected remove result %d %q", code, out)
	}
	if n := rowCount(t, db, "Rentals"); n != 0 {
		t.Errorf("expected rentals to cascade, %d left", n)
	}

	out, _, code = runInProcess(t, dbPath, "remove", itoa(id))
	if code != exitOK || out != "Customer not found.\n" {
		t.Errorf("unexpected second remove result %d %q", code, out)
	}
}

func TestCLIPing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")

	out, errOut, code := runInProcess(t, dbPath, "ping")
	if code != exitOK || !strings.HasPrefix(out, "Connection successful: ") {
		t.Errorf("unexpected ping result %d %q %q", code, out, errOut)
	}
}

// TestCLIHelpFallbackWritesNothing checks that unknown verbs and wrong arity
// print help and leave every table untouched.
func TestCLIHelpFallbackWritesNothing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")
	db := openDB(t, dbPath)
	id := seedCustomer(t, db, "stay@example.com")

	for _, args := range [][]string{
		{},
		{"bogus"},
		{"insert", "Inception", "2010"},
		{"insert", "Inception", "twenty-ten", "Sci-Fi", "Christopher Nolan"},
		{"update", itoa(id)},
		{"remove"},
		{"remove", itoa(id), "extra"},
		{"show", "extra"},
	} {
		out, _, code := runInProcess(t, dbPath, args...)
		if !strings.Contains(out, "insert <title> <year> <genre> <director>") {
			t.Errorf("%v: expected help text, got %q", args, out)
		}
		if code != exitUsageErr {
			t.Errorf("%v: expected exit code %d, got %d", args, exitUsageErr, code)
		}
	}

	if n := rowCount(t, db, "Movies"); n != 0 {
		t.Errorf("expected no movies, got %d", n)
	}
	if n := rowCount(t, db, "Customers"); n != 1 {
		t.Errorf("expected customer to remain, got %d customers", n)
	}
}

func TestCLIBadNumberMessage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rentals.db")

	_, errOut, _ := runInProcess(t, dbPath, "remove", "abc")
	if !strings.Contains(errOut, "invalid customer_id: abc") {
		t.Errorf("expected invalid customer_id message, got %q", errOut)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
