package config

import (
	"catalog/version"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the catalog service runtime configuration.
type Config struct {
	LogLevel    string
	LogFilePath string
	LogConsole  bool
	Port        int

	DatabaseType         string // sqlite or postgres
	DatabaseURL          string
	SQLitePragmasEnabled bool
	SQLiteBusyTimeoutMS  int
	SQLiteJournalMode    string
	SQLiteSynchronous    string
	SQLiteForeignKeys    bool
	SQLiteMaxOpenConns   int
	SQLiteMaxIdleConns   int
	SQLiteConnMaxIdleSec int
	SQLiteConnMaxLifeSec int

	FrontendURL string
	CORSOrigins []string

	AuthJWTSecret        string
	AuthJWKSURL          string
	AuthIssuer           string
	AuthAudience         string
	AuthJWKSCacheSeconds int
	AdminEmails          []string
	AdminAllowCIDRs      []string
	AdminDenyCIDRs       []string

	StorageDir     string
	StorageBucket  string
	PublicBaseURL  string
	ImageMaxBytes  int64
	ImageMaxSide   int
	ImageQuality   int
	WhatsAppNumber string

	ErrorLogCapacity int

	CLIMode    bool
	CLIServer  string // Server URL for CLI mode
	IssueToken string // Admin email to mint a token for, then exit
}

// Settings is the global configuration instance populated from environment variables and flags.
var Settings *Config

func init() {
	Settings = &Config{
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFilePath: getEnv("LOG_FILE", "./catalog.log"),
		LogConsole:  getEnvBool("LOG_CONSOLE", true),
		Port:        getEnvInt("PORT", 3002),

		DatabaseType:         getEnv("DATABASE_TYPE", "sqlite"),
		DatabaseURL:          getEnv("DATABASE_URL", "catalog.db"),
		SQLitePragmasEnabled: getEnvBool("SQLITE_PRAGMAS_ENABLED", true),
		SQLiteBusyTimeoutMS:  getEnvInt("SQLITE_BUSY_TIMEOUT_MS", 5000),
		SQLiteJournalMode:    getEnv("SQLITE_JOURNAL_MODE", "WAL"),
		SQLiteSynchronous:    getEnv("SQLITE_SYNCHRONOUS", "NORMAL"),
		SQLiteForeignKeys:    getEnvBool("SQLITE_FOREIGN_KEYS", true),
		SQLiteMaxOpenConns:   getEnvInt("SQLITE_MAX_OPEN_CONNS", 1),
		SQLiteMaxIdleConns:   getEnvInt("SQLITE_MAX_IDLE_CONNS", 1),
		SQLiteConnMaxIdleSec: getEnvInt("SQLITE_CONN_MAX_IDLE_SECONDS", 300),
		SQLiteConnMaxLifeSec: getEnvInt("SQLITE_CONN_MAX_LIFETIME_SECONDS", 0),

		FrontendURL: getEnv("FRONTEND_URL", ""),
		CORSOrigins: getEnvList("CORS_ORIGINS"),

		AuthJWTSecret:        getEnv("AUTH_JWT_SECRET", ""),
		AuthJWKSURL:          getEnv("AUTH_JWKS_URL", ""),
		AuthIssuer:           getEnv("AUTH_ISSUER", ""),
		AuthAudience:         getEnv("AUTH_AUDIENCE", ""),
		AuthJWKSCacheSeconds: getEnvInt("AUTH_JWKS_CACHE_SECONDS", 600),
		AdminEmails:          getEnvList("ADMIN_EMAILS"),
		AdminAllowCIDRs:      getEnvList("ADMIN_ALLOW_CIDRS"),
		AdminDenyCIDRs:       getEnvList("ADMIN_DENY_CIDRS"),

		StorageDir:     getEnv("STORAGE_DIR", "./uploads"),
		StorageBucket:  getEnv("STORAGE_BUCKET", "product-images"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),
		ImageMaxBytes:  int64(getEnvInt("IMAGE_MAX_BYTES", 5*1024*1024)),
		ImageMaxSide:   getEnvInt("IMAGE_MAX_SIDE", 800),
		ImageQuality:   getEnvInt("IMAGE_QUALITY", 85),
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", ""),

		ErrorLogCapacity: getEnvInt("ERROR_LOG_CAPACITY", 100),

		CLIMode:   getEnvBool("CLI_MODE", false),
		CLIServer: getEnv("CLI_SERVER", ""),
	}
}

// AllowedOrigins returns the CORS allow-list: the local dev origins, FRONTEND_URL and CORS_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:5500", "http://127.0.0.1:5500"}
	seen := map[string]bool{origins[0]: true, origins[1]: true}

	extra := append([]string{c.FrontendURL}, c.CORSOrigins...)
	for _, o := range extra {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

// ParseFlags parses command-line flags and applies overrides to Settings.
// --help prints usage and exits; --version prints build info and exits.
func ParseFlags() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Central Celulares catalog API\n\n")
		fmt.Fprintf(out, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
		fmt.Fprintln(out, "\nEnvironment variables:")
		fmt.Fprintln(out, "  LOG_LEVEL                         Log level (DEBUG, INFO, WARN, ERROR)")
		fmt.Fprintln(out, "  LOG_FILE                          Log file path (default ./catalog.log)")
		fmt.Fprintln(out, "  LOG_CONSOLE                       Also log to stdout (default true)")
		fmt.Fprintln(out, "  PORT                              HTTP server port (default 3002)")
		fmt.Fprintln(out, "  DATABASE_TYPE                     sqlite or postgres (default sqlite)")
		fmt.Fprintln(out, "  DATABASE_URL                      SQLite path or postgres DSN (default catalog.db)")
		fmt.Fprintln(out, "  SQLITE_PRAGMAS_ENABLED            Enable SQLite PRAGMAs (true/false, default true)")
		fmt.Fprintln(out, "  SQLITE_BUSY_TIMEOUT_MS            SQLite busy_timeout in milliseconds (default 5000)")
		fmt.Fprintln(out, "  SQLITE_JOURNAL_MODE               SQLite journal_mode (default WAL)")
		fmt.Fprintln(out, "  SQLITE_SYNCHRONOUS                SQLite synchronous (default NORMAL)")
		fmt.Fprintln(out, "  SQLITE_MAX_OPEN_CONNS             SQLite MaxOpenConns (default 1)")
		fmt.Fprintln(out, "  FRONTEND_URL                      Extra CORS origin for the storefront")
		fmt.Fprintln(out, "  CORS_ORIGINS                      Comma separated extra CORS origins")
		fmt.Fprintln(out, "  AUTH_JWT_SECRET                   HS256 secret for admin bearer tokens")
		fmt.Fprintln(out, "  AUTH_JWKS_URL                     JWKS endpoint; takes precedence over AUTH_JWT_SECRET")
		fmt.Fprintln(out, "  AUTH_ISSUER / AUTH_AUDIENCE       Expected iss / aud claims")
		fmt.Fprintln(out, "  ADMIN_EMAILS                      Comma separated admin allow-list seed")
		fmt.Fprintln(out, "  ADMIN_ALLOW_CIDRS                 Networks allowed to call admin routes (default any)")
		fmt.Fprintln(out, "  ADMIN_DENY_CIDRS                  Networks refused on admin routes")
		fmt.Fprintln(out, "  STORAGE_DIR                       Local object store root (default ./uploads)")
		fmt.Fprintln(out, "  STORAGE_BUCKET                    Bucket for product images (default product-images)")
		fmt.Fprintln(out, "  PUBLIC_BASE_URL                   Base URL used to build public image URLs")
		fmt.Fprintln(out, "  IMAGE_MAX_BYTES                   Upload size limit in bytes (default 5242880)")
		fmt.Fprintln(out, "  WHATSAPP_NUMBER                   Number used for product purchase links")
		fmt.Fprintln(out, "  ERROR_LOG_CAPACITY                In-memory error log entries kept (default 100)")
		fmt.Fprintln(out, "  CATALOG_TOKEN                     Bearer token for --cli (overrides ~/.catalog/config.yaml)")
	}

	port := flag.Int("port", Settings.Port, "HTTP server port (overrides PORT)")
	dbType := flag.String("db-type", Settings.DatabaseType, "Database type: sqlite or postgres (overrides DATABASE_TYPE)")
	db := flag.String("db", Settings.DatabaseURL, "Database path or DSN (overrides DATABASE_URL)")
	sqlitePragmasEnabled := flag.Bool("sqlite-pragmas", Settings.SQLitePragmasEnabled, "Enable SQLite PRAGMAs (overrides SQLITE_PRAGMAS_ENABLED)")
	sqliteBusyTimeoutMS := flag.Int("sqlite-busy-timeout-ms", Settings.SQLiteBusyTimeoutMS, "SQLite busy_timeout in milliseconds (overrides SQLITE_BUSY_TIMEOUT_MS)")
	sqliteJournalMode := flag.String("sqlite-journal-mode", Settings.SQLiteJournalMode, "SQLite journal_mode (overrides SQLITE_JOURNAL_MODE)")
	sqliteMaxOpenConns := flag.Int("sqlite-max-open-conns", Settings.SQLiteMaxOpenConns, "SQLite MaxOpenConns (overrides SQLITE_MAX_OPEN_CONNS)")
	logLevel := flag.String("log-level", Settings.LogLevel, "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL)")
	logFile := flag.String("log-file", Settings.LogFilePath, "Log file path (overrides LOG_FILE)")
	storageDir := flag.String("storage-dir", Settings.StorageDir, "Local object store root (overrides STORAGE_DIR)")
	frontendURL := flag.String("frontend-url", Settings.FrontendURL, "Storefront origin allowed by CORS (overrides FRONTEND_URL)")
	cliMode := flag.Bool("cli", Settings.CLIMode, "Run the admin console (HTTP client only, no database)")
	cliServer := flag.String("server", Settings.CLIServer, "Server URL for CLI mode (defaults to the configured server)")
	issueToken := flag.String("issue-token", "", "Print an admin bearer token for the given email and exit (needs AUTH_JWT_SECRET)")

	showHelp := flag.Bool("help", false, "Show help and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetBuildInfo())
		os.Exit(0)
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	Settings.Port = *port
	Settings.DatabaseType = strings.ToLower(strings.TrimSpace(*dbType))
	Settings.DatabaseURL = *db
	Settings.SQLitePragmasEnabled = *sqlitePragmasEnabled
	Settings.SQLiteBusyTimeoutMS = *sqliteBusyTimeoutMS
	Settings.SQLiteJournalMode = *sqliteJournalMode
	Settings.SQLiteMaxOpenConns = *sqliteMaxOpenConns
	Settings.LogLevel = *logLevel
	Settings.LogFilePath = *logFile
	Settings.StorageDir = *storageDir
	Settings.FrontendURL = *frontendURL
	Settings.CLIMode = *cliMode
	Settings.CLIServer = *cliServer
	Settings.IssueToken = strings.TrimSpace(*issueToken)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
