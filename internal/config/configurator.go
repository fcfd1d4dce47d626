package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"io/fs"
	"strings"
	"time"
)

const (
	CONFIG_FILE = "CONFIG_FILE"

	PORT     = "PORT"
	APP_HOST = "APP_HOST"

	SPREADSHEET_ID             = "SPREADSHEET_ID"
	SHEET_NAME                 = "SHEET_NAME"
	GOOGLE_SHEETS_CLIENT_EMAIL = "GOOGLE_SHEETS_CLIENT_EMAIL"
	GOOGLE_SHEETS_PRIVATE_KEY  = "GOOGLE_SHEETS_PRIVATE_KEY"
	GOOGLE_TOKEN_URL           = "GOOGLE_TOKEN_URL"
	SHEETS_ENDPOINT            = "SHEETS_ENDPOINT"

	SINK      = "SINK"
	XLSX_PATH = "XLSX_PATH"

	DB_HOST      = "DB_HOST"
	DB_NAME      = "DB_NAME"
	DB_USERNAME  = "DB_USERNAME"
	DB_PASS      = "DB_PASS"
	DB_PORT      = "DB_PORT"
	DB_MAX_CONNS = "DB_MAX_CONNS"
	DB_MIN_CONNS = "DB_MIN_CONNS"

	JAG_DSN = "JAG_DSN"

	LOG_LEVEL = "LOG_LEVEL"
	LOG_FILE  = "LOG_FILE"

	SHOW_WINNERS = "SHOW_WINNERS"
	CORS_ORIGINS = "CORS_ORIGINS"

	SUBMIT_MODE       = "SUBMIT_MODE"
	RELAY_URL         = "RELAY_URL"
	GOOGLE_SCRIPT_URL = "GOOGLE_SCRIPT_URL"
	SUBMIT_TIMEOUT    = "SUBMIT_TIMEOUT"
)

const (
	SINK_SHEETS   = "sheets"
	SINK_XLSX     = "xlsx"
	SINK_POSTGRES = "postgres"

	MODE_RELAY  = "relay"
	MODE_SCRIPT = "script"
)

var relayDefaults = map[string]interface{}{
	PORT:                       "4001",
	APP_HOST:                   "",
	SPREADSHEET_ID:             "",
	SHEET_NAME:                 "Sheet1",
	GOOGLE_SHEETS_CLIENT_EMAIL: "",
	GOOGLE_SHEETS_PRIVATE_KEY:  "",
	GOOGLE_TOKEN_URL:           "https://oauth2.googleapis.com/token",
	SHEETS_ENDPOINT:            "https://sheets.googleapis.com/",
	SINK:                       SINK_SHEETS,
	XLSX_PATH:                  "./data/registrations.xlsx",
	DB_HOST:                    "localhost",
	DB_NAME:                    "hackathon",
	DB_USERNAME:                "",
	DB_PASS:                    "",
	DB_PORT:                    5432,
	DB_MAX_CONNS:               10,
	DB_MIN_CONNS:               1,
	JAG_DSN:                    "",
	LOG_LEVEL:                  "info",
	LOG_FILE:                   "./logs/relay.log",
	SHOW_WINNERS:               false,
	CORS_ORIGINS:               "*",
}

var clientDefaults = map[string]interface{}{
	SUBMIT_MODE:       MODE_RELAY,
	RELAY_URL:         "http://localhost:4001",
	GOOGLE_SCRIPT_URL: "",
	SUBMIT_TIMEOUT:    "15s",
}

// Entity is the relay configuration, read once at start. Only the log level
// is reloaded when the config file changes.
type Entity struct {
	App    Application `mapstructure:",squash"`
	Sheets Sheets      `mapstructure:",squash"`
	Sink   Sink        `mapstructure:",squash"`
	DB     Database    `mapstructure:",squash"`
	Jag    Jaeger      `mapstructure:",squash"`
	Log    Logging     `mapstructure:",squash"`
	Site   Site        `mapstructure:",squash"`

	// File is the config file in use, empty when only env is read.
	File string `mapstructure:"-"`
}

type Application struct {
	Port        string `mapstructure:"PORT"`
	Host        string `mapstructure:"APP_HOST"`
	CorsOrigins string `mapstructure:"CORS_ORIGINS"`
}

func (a Application) Origins() []string {
	var out []string
	for _, o := range strings.Split(a.CorsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type Sheets struct {
	SpreadsheetID string `mapstructure:"SPREADSHEET_ID"`
	SheetName     string `mapstructure:"SHEET_NAME"`
	ClientEmail   string `mapstructure:"GOOGLE_SHEETS_CLIENT_EMAIL"`
	PrivateKey    string `mapstructure:"GOOGLE_SHEETS_PRIVATE_KEY"`
	TokenURL      string `mapstructure:"GOOGLE_TOKEN_URL"`
	Endpoint      string `mapstructure:"SHEETS_ENDPOINT"`
}

type Sink struct {
	Kind     string `mapstructure:"SINK"`
	XlsxPath string `mapstructure:"XLSX_PATH"`
}

type Database struct {
	Hostname string `mapstructure:"DB_HOST"`
	Name     string `mapstructure:"DB_NAME"`
	User     string `mapstructure:"DB_USERNAME"`
	Pass     string `mapstructure:"DB_PASS"`
	Port     uint16 `mapstructure:"DB_PORT"`
	MaxConns int32  `mapstructure:"DB_MAX_CONNS"`
	MinConns int32  `mapstructure:"DB_MIN_CONNS"`
}

type Jaeger struct {
	Dsn string `mapstructure:"JAG_DSN"`
}

type Logging struct {
	Level string `mapstructure:"LOG_LEVEL"`
	File  string `mapstructure:"LOG_FILE"`
}

type Site struct {
	ShowWinners bool `mapstructure:"SHOW_WINNERS"`
}

// NewConfig reads the relay configuration through the global viper
// instance, which server.Init later watches for changes.
func NewConfig() (*Entity, error) {
	return Load(viper.GetViper())
}

func Load(v *viper.Viper) (*Entity, error) {
	file, err := prepare(v, relayDefaults)
	if err != nil {
		return nil, fmt.Errorf("NewConfig failed: %w", err)
	}

	config := &Entity{File: file}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("NewConfig failed: %w", err)
	}

	// Keys are commonly stored with escaped newlines in env files.
	config.Sheets.PrivateKey = strings.ReplaceAll(config.Sheets.PrivateKey, `\n`, "\n")

	switch config.Sink.Kind {
	case SINK_SHEETS, SINK_XLSX, SINK_POSTGRES:
	default:
		return nil, fmt.Errorf("NewConfig failed: unknown sink %q", config.Sink.Kind)
	}

	return config, nil
}

type Client struct {
	Mode      string        `mapstructure:"SUBMIT_MODE"`
	RelayURL  string        `mapstructure:"RELAY_URL"`
	ScriptURL string        `mapstructure:"GOOGLE_SCRIPT_URL"`
	Timeout   time.Duration `mapstructure:"SUBMIT_TIMEOUT"`
}

func NewClientConfig() (*Client, error) {
	return LoadClient(viper.New())
}

func LoadClient(v *viper.Viper) (*Client, error) {
	if _, err := prepare(v, clientDefaults); err != nil {
		return nil, fmt.Errorf("NewClientConfig failed: %w", err)
	}

	config := &Client{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("NewClientConfig failed: %w", err)
	}

	switch config.Mode {
	case MODE_RELAY, MODE_SCRIPT:
	default:
		return nil, fmt.Errorf("NewClientConfig failed: unknown submit mode %q", config.Mode)
	}

	return config, nil
}

// prepare registers defaults so that env values reach Unmarshal, then reads
// the optional env-format file named by CONFIG_FILE.
func prepare(v *viper.Viper, defaults map[string]interface{}) (string, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	if err := v.BindEnv(CONFIG_FILE); err != nil {
		return "", err
	}
	file := v.GetString(CONFIG_FILE)
	if file == "" {
		return "", nil
	}

	v.SetConfigFile(file)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	return file, nil
}
