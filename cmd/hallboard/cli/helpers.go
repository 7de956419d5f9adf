package cli

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hallboard/hallboard/internal/server"
	"github.com/hallboard/hallboard/internal/store"
)

// storeConfigFromViper builds a store.Config from the effective viper
// settings, falling back to the store defaults for anything unset.
func storeConfigFromViper() store.Config {
	cfg := store.DefaultConfig()

	if driver := viper.GetString("db.driver"); driver != "" {
		cfg.Driver = driver
	}
	if dsn := viper.GetString("db.dsn"); dsn != "" {
		cfg.DSN = dsn
	}
	if n := viper.GetInt("db.max_open_conns"); n > 0 {
		cfg.MaxOpenConns = n
	}
	if n := viper.GetInt("db.max_idle_conns"); n > 0 {
		cfg.MaxIdleConns = n
	}
	if d := viper.GetDuration("db.conn_max_lifetime"); d > 0 {
		cfg.ConnMaxLifetime = d
	}
	if d := viper.GetDuration("db.conn_max_idle_time"); d > 0 {
		cfg.ConnMaxIdleTime = d
	}

	return cfg
}

// serverConfigFromViper builds a server.Config from the effective viper
// settings. The bound server.host/server.port keys resolve flag, env, and
// file values in the usual precedence order.
func serverConfigFromViper(dev bool) server.Config {
	cfg := server.DefaultConfig()

	if host := viper.GetString("server.host"); host != "" {
		cfg.Host = host
	}
	if port := viper.GetInt("server.port"); port > 0 {
		cfg.Port = port
	}
	if dev {
		cfg.CORSOrigins = []string{"*"}
	} else if origins := viper.GetStringSlice("server.cors.allowed_origins"); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	cfg.SecureCookies = viper.GetBool("auth.secure_cookies")

	if viper.IsSet("rate_limit.enabled") && !viper.GetBool("rate_limit.enabled") {
		cfg.RateLimitPerMinute = 0
	} else if n := viper.GetInt("rate_limit.requests_per_minute"); n > 0 {
		cfg.RateLimitPerMinute = n
	}

	cfg.Version = versionString()
	return cfg
}

// openStore opens the entry store from the effective configuration.
func openStore() (*store.Store, error) {
	return store.Open(storeConfigFromViper())
}

// keepAliveInterval returns the configured keep-alive ping interval, or
// zero when the pinger is disabled.
func keepAliveInterval() time.Duration {
	if viper.IsSet("db.keepalive") && !viper.GetBool("db.keepalive") {
		return 0
	}
	if d := viper.GetDuration("db.keepalive_interval"); d > 0 {
		return d
	}
	return 2 * time.Minute
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
