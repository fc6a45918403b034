package movierental

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the connection settings for the rental database.
type Config struct {
	// Driver is the database driver: "pg" (pgx), "postgres" (lib/pq) or "sqlite3".
	Driver string `json:"driver,omitempty"`

	// Conn is a complete connection string. When set it wins over the
	// discrete fields below.
	Conn string `json:"conn,omitempty"`

	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"sslmode,omitempty"`

	// passwordSet records an explicitly empty DB_PASS so the default
	// password is not filled back in.
	passwordSet bool
}

// DefaultConfig points at a local PostgreSQL with the stock credentials.
var DefaultConfig = Config{
	Driver:   "pg",
	Host:     "localhost",
	Port:     5432,
	Database: "movie_rental_db",
	User:     "postgres",
	Password: "1234",
	SSLMode:  "disable",
}

// LoadConfig decodes a JSON configuration file into cfg. Fields absent from
// the file keep their current value.
func LoadConfig(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(cfg)
}

// LoadEnv reads a dotenv file into the process environment. Variables that
// are already set are left alone. A missing file is not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the connection environment variables onto cfg.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("MOVIERENTAL_DRIVER"); v != "" {
		c.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Conn = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.User = v
	}
	if v, ok := os.LookupEnv("DB_PASS"); ok {
		c.Password = v
		c.passwordSet = true
	}
	return nil
}

// withDefaults fills every empty field from DefaultConfig.
func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = DefaultConfig.Driver
	}
	if c.Host == "" {
		c.Host = DefaultConfig.Host
	}
	if c.Port == 0 {
		c.Port = DefaultConfig.Port
	}
	if c.Database == "" {
		c.Database = DefaultConfig.Database
	}
	if c.User == "" {
		c.User = DefaultConfig.User
	}
	if c.Password == "" && !c.passwordSet {
		c.Password = DefaultConfig.Password
	}
	if c.SSLMode == "" {
		c.SSLMode = DefaultConfig.SSLMode
	}
	return c
}

// DSN returns the connection string handed to sql.Open. The driver decides
// its shape; an unknown driver gets the PostgreSQL key/value form.
func (c Config) DSN() string {
	c = c.withDefaults()
	if d, err := newDialect(c.Driver); err == nil {
		return d.dsn(c)
	}
	return c.keyValueDSN()
}

// keyValueDSN builds a libpq style key/value string from the discrete fields.
func (c Config) keyValueDSN() string {
	parts := []string{
		"host=" + quoteDSNValue(c.Host),
		fmt.Sprintf("port=%d", c.Port),
		"dbname=" + quoteDSNValue(c.Database),
		"user=" + quoteDSNValue(c.User),
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(c.Password))
	}
	parts = append(parts, "sslmode="+quoteDSNValue(c.SSLMode))
	return strings.Join(parts, " ")
}

// sqliteDSN makes sure foreign key enforcement is switched on for every
// pooled connection; cascading deletes depend on it.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + url.Values{"_foreign_keys": {"on"}}.Encode()
}

// quoteDSNValue quotes a key/value DSN value when it holds spaces or quotes.
func quoteDSNValue(v string) string {
	if v == "" || strings.ContainsAny(v, ` '\`) {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `'`, `\'`)
		return "'" + v + "'"
	}
	return v
}
