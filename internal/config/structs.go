package config

import (
	"time"

	"github.com/infoscreen/infoscreen/internal/logger"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	// DriverMemory keeps the settings in process memory only.
	DriverMemory = "memory"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode" json:"devMode"` // enable dev mode for development
	Title     string     `mapstructure:"title" json:"title"`
	DB        DB         `mapstructure:"db" json:"db"`
	Log       logger.Log `mapstructure:"log" json:"log"`
	Webserver Webserver  `mapstructure:"webserver" json:"webserver"`
	Store     Store      `mapstructure:"store" json:"store"`
}

// DB holds the database configuration settings.
// URL wins over the single connection fields if set.
type DB struct {
	Driver   string `mapstructure:"driver" json:"driver"`
	URL      string `mapstructure:"url" json:"url"`
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"password"`
	Name     string `mapstructure:"name" json:"name"`
	Extras   string `mapstructure:"extras" json:"extras"` // driver specific query parameters

	MaxOpenConns    int           `mapstructure:"maxOpenConns" json:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns" json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime" json:"connMaxLifetime"`
	SlowThreshold   time.Duration `mapstructure:"slowThreshold" json:"slowThreshold"`

	// Migrate applies pending schema migrations at startup.
	Migrate bool `mapstructure:"migrate" json:"migrate"`
}

// Webserver implement webserver settings.
type Webserver struct {
	Address        string        `mapstructure:"address" json:"address"`               // listening address, empty for all interfaces
	Port           int           `mapstructure:"port" json:"port"`                     // listening port for the webserver
	AutoPort       bool          `mapstructure:"autoPort" json:"autoPort"`             // probe [PortRangeStart, PortRangeEnd) for a free port
	PortRangeStart int           `mapstructure:"portRangeStart" json:"portRangeStart"` // first port probed
	PortRangeEnd   int           `mapstructure:"portRangeEnd" json:"portRangeEnd"`     // end of the range, not probed
	ShutDownTime   int           `mapstructure:"shutDownTime" json:"shutDownTime"`     // seconds /checkalive reports 503 before shutdown
	FastShutDown   bool          `mapstructure:"fastShutDown" json:"fastShutDown"`     // skip the drain wait
	DisableRecover bool          `mapstructure:"disableRecover" json:"disableRecover"` // disable recover middleware
	AllowOrigins   string        `mapstructure:"allowOrigins" json:"allowOrigins"`     // CORS origins, comma separated
	BodyLimit      int           `mapstructure:"bodyLimit" json:"bodyLimit"`           // bytes
	ReadBufferSize int           `mapstructure:"readBufferSize" json:"readBufferSize"` // bytes
	RequestTimeout time.Duration `mapstructure:"requestTimeout" json:"requestTimeout"` // per request deadline for store calls
}

// Store configures the settings store.
type Store struct {
	IDPolicy       string        `mapstructure:"idPolicy" json:"idPolicy"` // adopt or reject
	BackendTimeout time.Duration `mapstructure:"backendTimeout" json:"backendTimeout"`
	WarmUp         bool          `mapstructure:"warmUp" json:"warmUp"` // load or create the record at startup
}
