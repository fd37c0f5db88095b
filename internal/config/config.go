package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	// Chain settings. With ChainRPCURL empty the service runs against the
	// in-process ledger, which is what local development uses.
	ChainRPCURL    string
	ChainID        int64
	TokenAddress   string
	ManagerAddress string
	ConfirmTimeout time.Duration

	// Keeper poll schedule, cron syntax. Empty disables the keeper.
	KeeperSchedule string

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "emipay"),
		MySQLUser: getenv("MYSQL_USER", "emipay"),
		MySQLPass: getenv("MYSQL_PASS", "emipay"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		ChainRPCURL:    os.Getenv("CHAIN_RPC_URL"),
		TokenAddress:   os.Getenv("TOKEN_ADDRESS"),
		ManagerAddress: os.Getenv("EMI_MANAGER_ADDRESS"),
		ConfirmTimeout: 90 * time.Second,

		KeeperSchedule: getenv("KEEPER_SCHEDULE", "@every 1h"),

		IdempTTLSecs: 300,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("CHAIN_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.ChainID = n
		}
	}
	if v := os.Getenv("CONFIRM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ConfirmTimeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.ChainRPCURL != "" && (c.TokenAddress == "" || c.ManagerAddress == "") {
		return errors.New("CHAIN_RPC_URL set but TOKEN_ADDRESS/EMI_MANAGER_ADDRESS missing")
	}
	return nil
}

// OnChain reports whether the service settles against a real node.
func (c *Config) OnChain() bool { return c.ChainRPCURL != "" }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
