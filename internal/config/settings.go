package config

import (
	"fmt"
	"strconv"
	"time"
)

// Settings are the resolved global options, with environment overrides
// applied and defaults filled in.
type Settings struct {
	CartKey       string
	LocalBackend  string
	WatchInterval time.Duration
	SessionID     string
	Formula       string
	Shipping      float64
	Locale        string
	CatalogFile   string
	LogFile       string
	LogLevel      string
	LogMaxSizeMB  int
	LogMaxFiles   int
}

// Resolve computes Settings from c. A value that does not parse as its
// declared type is an error.
func Resolve(c *Config) (Settings, error) {
	s := DefaultSchema()
	get := func(key string) (string, error) {
		v := s.Resolve(c, key)
		if opt := s.Lookup("", key); opt != nil {
			if err := opt.validate(v); err != nil {
				return "", fmt.Errorf("option %q: %w", key, err)
			}
		}
		return v, nil
	}

	var (
		out Settings
		err error
	)
	str := func(key string, dst *string) {
		if err != nil {
			return
		}
		*dst, err = get(key)
	}
	num := func(key string, dst *int) {
		var v string
		str(key, &v)
		if err == nil {
			*dst, err = strconv.Atoi(v)
		}
	}

	str("cart.key", &out.CartKey)
	str("cart.local-backend", &out.LocalBackend)
	str("session.id", &out.SessionID)
	str("pricing.formula", &out.Formula)
	str("pricing.locale", &out.Locale)
	str("catalog.file", &out.CatalogFile)
	str("log.file", &out.LogFile)
	str("log.level", &out.LogLevel)
	num("log.max-size-mb", &out.LogMaxSizeMB)
	num("log.max-files", &out.LogMaxFiles)

	var interval, shipping string
	str("cart.watch-interval", &interval)
	str("pricing.shipping", &shipping)
	if err != nil {
		return Settings{}, err
	}
	if out.WatchInterval, err = time.ParseDuration(interval); err != nil {
		return Settings{}, err
	}
	if out.WatchInterval <= 0 {
		return Settings{}, fmt.Errorf("option %q: must be positive", "cart.watch-interval")
	}
	if out.Shipping, err = strconv.ParseFloat(shipping, 64); err != nil {
		return Settings{}, err
	}
	if out.Shipping < 0 {
		return Settings{}, fmt.Errorf("option %q: must not be negative", "pricing.shipping")
	}
	return out, nil
}
