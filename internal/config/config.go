package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads the YAML file at configPath, overlays environment variables and
// validates the result. With an empty path the default config.yml is read if
// present; an explicitly named file must exist.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	raw := rawAppConfig{}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
		path = "environment"
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)

	env := envOverrides{}
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}
	if err := applyEnvOverrides(&cfg, env); err != nil {
		return nil, err
	}
	finalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config from %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks ranges and the values that are later spliced into queries or URLs.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if _, err := mysql.ParseDSN(c.DSN); err != nil {
		return fmt.Errorf("invalid mysql dsn: %w", err)
	}
	switch c.Mongo.Backend {
	case BackendMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required when the query log backend is mongo")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid query log backend %q, expected %q or %q", c.Mongo.Backend, BackendMongo, BackendMemory)
	}
	if c.Mongo.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid mongo.timeout_seconds %d, expected > 0", c.Mongo.TimeoutSeconds)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	if !identifierPattern.MatchString(c.Catalog.View) {
		return fmt.Errorf("invalid catalog.view %q", c.Catalog.View)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Mongo: MongoRuntimeConfig{
			Backend:        defaultQueryLogBackend,
			URI:            defaultMongoURI,
			Database:       defaultMongoDatabase,
			Collection:     defaultMongoCollection,
			TimeoutSeconds: defaultMongoTimeoutSecs,
		},
		Redis: RedisRuntimeConfig{
			Host:            defaultRedisHost,
			Port:            defaultRedisPort,
			DB:              defaultRedisDB,
			CacheTTLSeconds: defaultCacheTTLSecs,
		},
		Catalog: CatalogRuntimeConfig{View: defaultCatalogView},
	}
	finalize(&cfg)
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}
	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}

	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Mongo = applyRawMongoConfig(cfg.Mongo, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	if v := strings.TrimSpace(raw.Catalog.View); v != "" {
		cfg.Catalog.View = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	db := raw.Database
	if v := strings.TrimSpace(db.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		cfg.Host = v
	}
	if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := strings.TrimSpace(db.User); v != "" {
		cfg.User = v
	} else if v := strings.TrimSpace(db.Username); v != "" {
		cfg.User = v
	}
	if db.Password != "" {
		cfg.Password = db.Password
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		cfg.Name = v
	} else if v := strings.TrimSpace(db.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if db.ParseTime != nil {
		cfg.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if db.Params != nil {
		cfg.Params = copyStringMap(db.Params)
	}
	return cfg
}

func applyRawMongoConfig(current MongoRuntimeConfig, raw rawAppConfig) MongoRuntimeConfig {
	cfg := current
	m := raw.Mongo
	if v := strings.TrimSpace(m.Backend); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(m.URI); v != "" {
		cfg.URI = v
	}
	if v := strings.TrimSpace(raw.MongoURI); v != "" {
		cfg.URI = v
	}
	if v := strings.TrimSpace(m.Database); v != "" {
		cfg.Database = v
	}
	if v := strings.TrimSpace(m.Collection); v != "" {
		cfg.Collection = v
	}
	if m.TimeoutSeconds != 0 {
		cfg.TimeoutSeconds = m.TimeoutSeconds
	}
	return cfg
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	r := raw.Redis
	if r.Enable != nil {
		cfg.Enable = *r.Enable
	}
	if v := strings.TrimSpace(r.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
		if r.Enable == nil {
			cfg.Enable = true
		}
	}
	if v := strings.TrimSpace(r.Host); v != "" {
		cfg.Host = v
	}
	if r.Port != 0 {
		cfg.Port = r.Port
	}
	if v := strings.TrimSpace(r.Username); v != "" {
		cfg.Username = v
	}
	if r.Password != "" {
		cfg.Password = r.Password
	}
	if r.DB != nil {
		cfg.DB = *r.DB
	}
	if r.TLS != nil {
		cfg.TLS = *r.TLS
	}
	if r.Params != nil {
		cfg.Params = copyStringMap(r.Params)
	}
	if r.CacheTTLSeconds != 0 {
		cfg.CacheTTLSeconds = r.CacheTTLSeconds
	}
	return cfg
}

// applyEnvOverrides gives environment variables the last word over the file.
func applyEnvOverrides(cfg *AppConfig, env envOverrides) error {
	port, err := envInt("FILMSEARCH_PORT", env.Port)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}
	if v := strings.TrimSpace(env.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(env.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(env.Timezone); v != "" {
		cfg.Timezone = v
	}

	if v := strings.TrimSpace(env.MySQLDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(env.MySQLHost); v != "" {
		cfg.Database.Host = v
	}
	mysqlPort, err := envInt("MYSQL_PORT", env.MySQLPort)
	if err != nil {
		return err
	}
	if mysqlPort != 0 {
		cfg.Database.Port = mysqlPort
	}
	if v := strings.TrimSpace(env.MySQLUser); v != "" {
		cfg.Database.User = v
	}
	if env.MySQLPassword != "" {
		cfg.Database.Password = env.MySQLPassword
	}
	if v := strings.TrimSpace(env.MySQLDatabase); v != "" {
		cfg.Database.Name = v
	}
	if v := strings.TrimSpace(env.MySQLCharset); v != "" {
		cfg.Database.Charset = v
	}

	if v := strings.TrimSpace(env.MongoURI); v != "" {
		cfg.Mongo.URI = v
	}
	if v := strings.TrimSpace(env.MongoDatabase); v != "" {
		cfg.Mongo.Database = v
	}
	if v := strings.TrimSpace(env.MongoCollection); v != "" {
		cfg.Mongo.Collection = v
	}
	if v := strings.TrimSpace(env.QueryLogBackend); v != "" {
		cfg.Mongo.Backend = v
	}

	if v := strings.TrimSpace(env.RedisURL); v != "" {
		cfg.Redis.URL = v
		cfg.Redis.Enable = true
	}
	return nil
}

// envInt parses a numeric environment value; blank means unset.
func envInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

func finalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Mongo = normalizeMongoConfig(cfg.Mongo)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.Catalog.View = strings.TrimSpace(cfg.Catalog.View)
	if cfg.Catalog.View == "" {
		cfg.Catalog.View = defaultCatalogView
	}
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LogDir resolves the directory holding error.log.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

// CacheTTL is zero when caching is disabled.
func (c *AppConfig) CacheTTL() time.Duration {
	if !c.Redis.Enable || c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c MongoRuntimeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
