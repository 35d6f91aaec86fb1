package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus" // logrus reports configuration errors and halts execution
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database settings are split per field for MySQL
// and PostgreSQL; DBDSN is used as-is for the embedded SQLite driver.
type Config struct {
	Env          string         // application environment (e.g. "dev", "prod")
	Port         string         // HTTP port to listen on
	DBDriver     string         // mysql | postgres | sqlite
	DBUser       string         // database username
	DBPass       string         // database password (optional)
	DBHost       string         // database host address
	DBPort       string         // database port number
	DBName       string         // database name
	DBDSN        string         // full DSN, required for sqlite and optional override otherwise
	JWTSecret    string         // secret used to sign JWTs
	AccessTTLMin int            // access token time-to-live in minutes
	BcryptCost   int            // bcrypt cost for password hashing
	Location     *time.Location // zone used to decide what "today" is for past-date checks
	AMQPURL      string         // RabbitMQ URL; empty disables event publishing
	LogLevel     string         // logrus level name
	AuditLogDir  string         // directory holding logs/reservation.log written by the event consumer
	RunConsumer  bool           // start the audit consumer alongside the HTTP server
	AdminName    string         // display name for the seeded admin account
	AdminEmail   string         // seeded admin email; empty skips seeding
	AdminPass    string         // seeded admin password
	ShutdownWait time.Duration  // grace period for in-flight requests on shutdown
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is applied first when
// present; variables already set in the process environment win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("could not read .env file: %v", err)
	}

	cfg := Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "8080"),
		DBDriver:     envStr("DB_DRIVER", "mysql"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBDSN:        os.Getenv("DB_DSN"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		Location:     mustLocation(envStr("APP_TIMEZONE", "Local")),
		AMQPURL:      amqpURL(),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		AuditLogDir:  envStr("AUDIT_LOG_DIR", "."),
		RunConsumer:  envBool("RUN_CONSUMER", true),
		AdminName:    envStr("ADMIN_NAME", "admin"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		ShutdownWait: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if cfg.AdminEmail != "" {
		cfg.AdminPass = must("ADMIN_PASSWORD")
	}
	// Discrete connection settings are only mandatory when no DSN is given
	// and the driver talks to a server.
	if cfg.DBDSN == "" {
		if cfg.DBDriver == driverSQLite {
			cfg.DBDSN = "roomescape.db"
		} else {
			cfg.DBUser = must("DB_USER")
			cfg.DBHost = must("DB_HOST")
			cfg.DBPort = must("DB_PORT")
			cfg.DBName = must("DB_NAME")
		}
	}
	return cfg
}

// driverSQLite mirrors database.DriverSQLite; config cannot import database.
const driverSQLite = "sqlite"

// IsProd reports whether APP_ENV names a production deployment.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logrus.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Fatalf("invalid APP_TIMEZONE %q: %v", name, err)
	}
	return loc
}

// amqpURL honours both RABBITMQ_URL and the older AMQP_URL name.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}
