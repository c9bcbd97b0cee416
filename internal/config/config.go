// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional JSON file,
// and environment variables (optionally seeded from a .env file).
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address"`

	// DatabaseDSN is a full connection string. When set it takes precedence
	// over the individual DB* fields.
	DatabaseDSN string `json:"database_dsn"`

	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`

	// LogLevel is passed to the zap logger ("debug", "info", ...).
	LogLevel string `json:"log_level"`

	// BcryptCost is the work factor used when hashing secrets.
	BcryptCost int `json:"bcrypt_cost"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// EnvFile is the path to an optional dotenv file.
	EnvFile string `json:"-"`
}

// Parse parses the process flags, config file and environment. It exits the
// process if the configuration cannot be loaded.
func Parse() *Options {
	opts, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("error while loading config: %v", err)
	}
	return opts
}

// Load builds Options from args, then overlays the JSON config file and
// finally the environment. Later sources win.
func Load(args []string) (*Options, error) {
	opts := &Options{}

	fs := flag.NewFlagSet("dirac", flag.ContinueOnError)
	fs.StringVar(&opts.Address, "a", ":3000", "run on ip:port server")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "db connection string")
	fs.StringVar(&opts.DBHost, "db-host", "localhost", "db host")
	fs.StringVar(&opts.DBPort, "db-port", "5432", "db port")
	fs.StringVar(&opts.DBName, "db-name", "dirac", "db name")
	fs.StringVar(&opts.DBUser, "db-user", "postgres", "db user")
	fs.StringVar(&opts.DBPassword, "db-password", "", "db password")
	fs.StringVar(&opts.DBSSLMode, "db-sslmode", "disable", "db sslmode")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level")
	fs.IntVar(&opts.BcryptCost, "bcrypt-cost", 10, "bcrypt work factor")
	fs.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	fs.StringVar(&opts.EnvFile, "env-file", ".env", "path to dotenv file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing dotenv file is not an error; existing variables are kept.
	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return nil, fmt.Errorf("load env file: %w", err)
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	if configPath := v.GetString("CONFIG"); configPath != "" {
		opts.Config = configPath
	}

	if opts.Config != "" {
		if _, err := os.Stat(opts.Config); err == nil {
			data, err := os.ReadFile(opts.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, opts); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnv(v, opts)

	return opts, nil
}

func applyEnv(v *viper.Viper, opts *Options) {
	if v.IsSet("SERVER_ADDRESS") {
		opts.Address = v.GetString("SERVER_ADDRESS")
	}
	if v.IsSet("SERVER_PORT") {
		opts.Address = net.JoinHostPort("", v.GetString("SERVER_PORT"))
	}

	str := map[string]*string{
		"DATABASE_DSN": &opts.DatabaseDSN,
		"DB_HOST":      &opts.DBHost,
		"DB_PORT":      &opts.DBPort,
		"DB_NAME":      &opts.DBName,
		"DB_USER":      &opts.DBUser,
		"DB_PASSWORD":  &opts.DBPassword,
		"DB_SSLMODE":   &opts.DBSSLMode,
		"LOG_LEVEL":    &opts.LogLevel,
	}
	for key, dst := range str {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	if v.IsSet("BCRYPT_COST") {
		opts.BcryptCost = v.GetInt("BCRYPT_COST")
	}
}

// DSN returns the connection string for the store. DatabaseDSN is returned
// as is when present; otherwise a postgres URL is assembled from the parts.
func (o *Options) DSN() string {
	if strings.TrimSpace(o.DatabaseDSN) != "" {
		return o.DatabaseDSN
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(o.DBHost, o.DBPort),
		Path:   "/" + o.DBName,
	}
	if o.DBPassword != "" {
		u.User = url.UserPassword(o.DBUser, o.DBPassword)
	} else if o.DBUser != "" {
		u.User = url.User(o.DBUser)
	}
	if o.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {o.DBSSLMode}}.Encode()
	}
	return u.String()
}
