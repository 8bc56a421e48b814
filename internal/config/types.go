package config

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	Timezone       string                `yaml:"timezone"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	DSN            string                `yaml:"dsn"` // MySQL DSN, derived from Database
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Mongo          MongoRuntimeConfig    `yaml:"mongo"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Catalog        CatalogRuntimeConfig  `yaml:"catalog"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type MongoRuntimeConfig struct {
	Backend        string `yaml:"backend"` // "mongo" | "memory"
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	Collection     string `yaml:"collection"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type RedisRuntimeConfig struct {
	Enable          bool              `yaml:"enable"`
	URL             string            `yaml:"url"`
	Host            string            `yaml:"host"`
	Port            int               `yaml:"port"`
	Username        string            `yaml:"username"`
	Password        string            `yaml:"password"`
	DB              int               `yaml:"db"`
	TLS             bool              `yaml:"tls"`
	Params          map[string]string `yaml:"params"`
	CacheTTLSeconds int               `yaml:"cache_ttl_seconds"`
}

type CatalogRuntimeConfig struct {
	View string `yaml:"view"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

type rawAppConfig struct {
	Port               int               `yaml:"port"`
	Env                string            `yaml:"env"`
	Timezone           string            `yaml:"timezone"`
	TZ                 string            `yaml:"tz"`
	AllowedOrigins     []string          `yaml:"allowed_origins"`
	CORSAllowedOrigins []string          `yaml:"cors_allowed_origins"`
	DSN                string            `yaml:"dsn"`
	DatabaseURL        string            `yaml:"database_url"`
	Database           rawDatabaseConfig `yaml:"database"`
	Mongo              rawMongoConfig    `yaml:"mongo"`
	MongoURI           string            `yaml:"mongo_uri"`
	Redis              rawRedisConfig    `yaml:"redis"`
	RedisURL           string            `yaml:"redis_url"`
	Catalog            rawCatalogConfig  `yaml:"catalog"`
	Paths              rawPathsConfig    `yaml:"paths"`
	LogDir             string            `yaml:"log_dir"`
}

type rawDatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawMongoConfig struct {
	Backend        string `yaml:"backend"`
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	Collection     string `yaml:"collection"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type rawRedisConfig struct {
	Enable          *bool             `yaml:"enable"`
	URL             string            `yaml:"url"`
	Host            string            `yaml:"host"`
	Port            int               `yaml:"port"`
	Username        string            `yaml:"username"`
	Password        string            `yaml:"password"`
	DB              *int              `yaml:"db"`
	TLS             *bool             `yaml:"tls"`
	Params          map[string]string `yaml:"params"`
	CacheTTLSeconds int               `yaml:"cache_ttl_seconds"`
}

type rawCatalogConfig struct {
	View string `yaml:"view"`
}

type rawPathsConfig struct {
	Logs string `yaml:"logs"`
}

// envOverrides mirrors the environment variables the tool has always honoured.
// Numeric values are kept as text so that a set-but-empty variable means unset.
type envOverrides struct {
	Port            string `envconfig:"FILMSEARCH_PORT"`
	Env             string `envconfig:"FILMSEARCH_ENV"`
	LogDir          string `envconfig:"FILMSEARCH_LOG_DIR"`
	Timezone        string `envconfig:"FILMSEARCH_TIMEZONE"`
	MySQLDSN        string `envconfig:"MYSQL_DSN"`
	MySQLHost       string `envconfig:"MYSQL_HOST"`
	MySQLPort       string `envconfig:"MYSQL_PORT"`
	MySQLUser       string `envconfig:"MYSQL_USER"`
	MySQLPassword   string `envconfig:"MYSQL_PASSWORD"`
	MySQLDatabase   string `envconfig:"MYSQL_DATABASE"`
	MySQLCharset    string `envconfig:"MYSQL_CHARSET"`
	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDatabase   string `envconfig:"MONGO_DB"`
	MongoCollection string `envconfig:"MONGO_COLLECTION"`
	QueryLogBackend string `envconfig:"QUERY_LOG_BACKEND"`
	RedisURL        string `envconfig:"REDIS_URL"`
}
