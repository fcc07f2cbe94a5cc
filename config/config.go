package config

import (
	"flag"
	"os"
	"sync"
)

const (
	defaultServerAddress  = ":8080"
	defaultDatabaseDSN    = ""
	defaultGatewayAddress = ":8181"
	defaultLogLevel       = "debug"
)

type Config struct {
	ServerAddr  string
	DatabaseDSN string
	GatewayAddr string
	LogLevel    string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "shopmart server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "shopmart database DSN")
		flag.StringVar(&cfg.GatewayAddr, "g", defaultGatewayAddress, "payment gateway address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if gatewayAddrEnv := os.Getenv("PAYMENT_GATEWAY_ADDRESS"); gatewayAddrEnv != "" {
			cfg.GatewayAddr = gatewayAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
