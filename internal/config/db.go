package config

const (
	// EngineMySQL selects the MySQL driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the PostgreSQL driver.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure Go SQLite driver. Name is the database file.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string `mapstructure:"gormEngine" toml:"gormEngine"`
	Extras     string `mapstructure:"extras"     toml:"extras"`
	Host       string `mapstructure:"host"       toml:"host"`
	Port       int    `mapstructure:"port"       toml:"port"`
	User       string `mapstructure:"user"       toml:"user"`
	Password   string `mapstructure:"password"   toml:"password"`
	Name       string `mapstructure:"name"       toml:"name"`

	MaxOpenConns int `mapstructure:"maxOpenConns" toml:"maxOpenConns"`
	MaxIdleConns int `mapstructure:"maxIdleConns" toml:"maxIdleConns"`
}
