package shared

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// AuthPolicy decides which routes sit behind the credential gate.
type AuthPolicy struct {
	ProtectWrites     bool
	ProtectRoomReads  bool
	ProtectMyListings bool
}

type ServerConfig struct {
	Addr     string
	LogLevel string

	TokenSecret  string
	TokenTTL     time.Duration
	CookieSecure bool

	CORSOrigins []string

	StoreDriver  string
	MongoURI     string
	DBName       string
	DBCollection string
	SQLitePath   string

	Auth AuthPolicy
}

// LoadServerConfig reads the process environment. Call godotenv before it
// if a .env file should be honoured.
func LoadServerConfig() (*ServerConfig, error) {
	return loadServerConfig(os.Getenv)
}

func loadServerConfig(getenv func(string) string) (*ServerConfig, error) {
	str := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	var errs []error
	boolean := func(key string, def bool) bool {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return b
	}

	c := &ServerConfig{
		Addr:         ":" + str("PORT", "8000"),
		LogLevel:     strings.ToUpper(str("LOG_LEVEL", "INFO")),
		TokenSecret:  getenv("ACCESS_TOKEN_SECRET"),
		TokenTTL:     DefaultTokenTTL,
		CookieSecure: boolean("COOKIE_SECURE", false),
		CORSOrigins:  splitList(str("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		StoreDriver:  strings.ToLower(str("STORE_DRIVER", DriverMongo)),
		MongoURI:     getenv("MONGODB_URI"),
		DBName:       str("DB_NAME", "homegoDB"),
		DBCollection: str("DB_COLLECTION", "rooms"),
		SQLitePath:   str("SQLITE_PATH", "./data/stayvista.db"),
		Auth: AuthPolicy{
			ProtectWrites:     boolean("PROTECT_WRITES", true),
			ProtectRoomReads:  boolean("PROTECT_ROOM_READS", false),
			ProtectMyListings: boolean("PROTECT_MY_LISTINGS", false),
		},
	}

	if v := strings.TrimSpace(getenv("TOKEN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("TOKEN_TTL: invalid duration %q", v))
		} else {
			c.TokenTTL = d
		}
	}

	if c.TokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}

	switch c.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL: invalid level %q", c.LogLevel))
	}

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			user := getenv("DB_USER")
			if user == "" {
				errs = append(errs, errors.New("mongo driver needs MONGODB_URI or DB_USER/DB_PASS"))
				break
			}
			c.MongoURI = BuildMongoURI(user, getenv("DB_PASS"), str("DB_CLUSTER", "cluster0.n6rvadf.mongodb.net"))
		}
	case DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// BuildMongoURI assembles an SRV connection string for an Atlas-style cluster.
func BuildMongoURI(user, pass, host string) string {
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
