package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "strings"  // strings supplies case-insensitive comparison for weekday names
    "time"     // time is used for weekday parsing of the sync schedule
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and prices.  Business logic receives this struct at construction
// time and never reads the environment on its own.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing

    // External movie-catalog API.  The base URL is overridable so tests can
    // point the client at a local server.
    CatalogAPIKey     string // catalog provider API key
    CatalogBaseURL    string // catalog API base URL
    CatalogImageBase  string // poster image base URL (poster path is appended)
    CatalogLanguage   string // language parameter sent on every request
    CatalogRegion     string // region parameter for the now-playing list
    CatalogMaxMovies  int    // maximum now-playing entries imported per run
    DefaultRuntimeMin int    // fallback movie duration in minutes

    // Weekly catalog sync trigger.
    SyncEnabled bool         // whether the in-process weekly trigger runs
    SyncWeekday time.Weekday // day of week the sync fires
    SyncHour    int          // hour of day (0-23)
    SyncMinute  int          // minute (0-59)

    // Payments.
    StripeSecretKey  string // Stripe API secret key
    FrontendBaseURL  string // base URL for success/cancel redirects
    TicketPriceCents int64  // price of one ticket in minor currency units
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Catalog and payment
// settings carry defaults so local development only needs the secrets.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),             // environment (dev/test/prod)
        Port:           must("APP_PORT"),            // port to bind the HTTP server
        DBUser:         must("DB_USER"),             // database user
        DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:         must("DB_HOST"),             // database host
        DBPort:         must("DB_PORT"),             // database port
        DBName:         must("DB_NAME"),             // database name
        JWTSecret:      must("JWT_SECRET"),          // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),      // bcrypt cost factor

        CatalogAPIKey:     must("CATALOG_API_KEY"),
        CatalogBaseURL:    getenv("CATALOG_BASE_URL", "https://api.themoviedb.org/3"),
        CatalogImageBase:  getenv("CATALOG_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
        CatalogLanguage:   getenv("CATALOG_LANGUAGE", "fr-FR"),
        CatalogRegion:     getenv("CATALOG_REGION", "CH"),
        CatalogMaxMovies:  envInt("CATALOG_MAX_MOVIES", 10),
        DefaultRuntimeMin: envInt("CATALOG_DEFAULT_RUNTIME_MIN", 90),

        SyncEnabled: envBool("CATALOG_SYNC_ENABLED", true),
        SyncWeekday: envWeekday("CATALOG_SYNC_WEEKDAY", time.Saturday),
        SyncHour:    envInt("CATALOG_SYNC_HOUR", 6),
        SyncMinute:  envInt("CATALOG_SYNC_MINUTE", 0),

        StripeSecretKey:  must("STRIPE_SECRET_KEY"),
        FrontendBaseURL:  getenv("FRONTEND_BASE_URL", "http://localhost:3000"),
        TicketPriceCents: envInt64("TICKET_PRICE_CENTS", 1600),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// envInt64 reads an optional int64 variable, falling back to the default on
// absence or parse failure.
func envInt64(key string, def int64) int64 {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if n, err := strconv.ParseInt(v, 10, 64); err == nil {
        return n
    }
    return def
}

// envWeekday parses an optional weekday name ("Saturday", "monday", ...)
// falling back to the default when absent or unrecognized.
func envWeekday(key string, def time.Weekday) time.Weekday {
    v := strings.TrimSpace(os.Getenv(key))
    if v == "" {
        return def
    }
    for d := time.Sunday; d <= time.Saturday; d++ {
        if strings.EqualFold(v, d.String()) {
            return d
        }
    }
    return def
}
