package logger

// Console implements a console based logger.
type Console struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// UseConsoleWriter switches from JSON lines to zerolog's human readable output.
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" json:"useConsoleWriter"`
	NoColor          bool `mapstructure:"noColor" json:"noColor"`
}

// RollingFile configures one lumberjack rotated log file.
type RollingFile struct {
	Name       string `mapstructure:"name" json:"name"`
	MaxSize    int    `mapstructure:"maxSize" json:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups" json:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge" json:"maxAge"` // days
	Compress   bool   `mapstructure:"compress" json:"compress"`
}

// LogFile implements a file based logger split by level.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" json:"path"`

	Access RollingFile `mapstructure:"access" json:"access"`
	Error  RollingFile `mapstructure:"error" json:"error"`
	Info   RollingFile `mapstructure:"info" json:"info"`
	Trace  RollingFile `mapstructure:"trace" json:"trace"`
	Warn   RollingFile `mapstructure:"warn" json:"warn"`
}

// Log implements the logger config.
type Log struct {
	Level string `mapstructure:"level" json:"level"` // trace, debug, info, warn, error.

	// EnableAccessLogToConsole writes the http access log to stdout.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool `mapstructure:"enableAccessLogToConsole" json:"enableAccessLogToConsole"`
	ReportCaller             bool `mapstructure:"reportCaller" json:"reportCaller"`
	DisableCheckAlive        bool `mapstructure:"disableCheckAlive" json:"disableCheckAlive"` // do not log /checkalive calls

	AppName     string `mapstructure:"appName" json:"appName"`
	ServiceName string `mapstructure:"serviceName" json:"serviceName"`

	// Console used mainly for docker and dev.
	Console Console `mapstructure:"console" json:"console"`

	File LogFile `mapstructure:"file" json:"file"`
}
