package config

const (
	// DefaultConfigPath is read when --config is not provided; a missing file is not an error.
	DefaultConfigPath = "config.yml"

	defaultPort             = 8080
	defaultEnv              = "development"
	defaultDBHost           = "127.0.0.1"
	defaultDBPort           = 3306
	defaultDBUser           = "root"
	defaultDBPassword       = "password"
	defaultDBName           = "sakila"
	defaultDBCharset        = "utf8mb4"
	defaultDBLoc            = "UTC"
	defaultQueryLogBackend  = BackendMongo
	defaultMongoURI         = "mongodb://localhost:27017"
	defaultMongoDatabase    = "filmsearch"
	defaultMongoCollection  = "query_logs"
	defaultMongoTimeoutSecs = 10
	defaultRedisHost        = "localhost"
	defaultRedisPort        = 6379
	defaultRedisDB          = 0
	defaultCacheTTLSecs     = 600
	defaultCatalogView      = "film_extended_view"

	// BackendMongo stores query logs in MongoDB.
	BackendMongo = "mongo"
	// BackendMemory keeps query logs in process memory only.
	BackendMemory = "memory"
)
