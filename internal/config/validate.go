package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}

	if c.Loader.Concurrency < 1 || c.Loader.Concurrency > MaxLoaderConcurrency {
		return fmt.Errorf("loader.concurrency must be between 1 and %d (got %d)", MaxLoaderConcurrency, c.Loader.Concurrency)
	}

	switch c.Store.Driver {
	case StoreDriverFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir is required for the file driver")
		}
	case StoreDriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q (got %q)", StoreDriverFile, StoreDriverPostgres, c.Store.Driver)
	}

	if c.RateLimit.LookupsPerMinute < 1 {
		return fmt.Errorf("rate_limit.lookups_per_minute must be >= 1 (got %d)", c.RateLimit.LookupsPerMinute)
	}

	return nil
}

func (d *DictionaryConfig) validate() error {
	u, err := url.Parse(d.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", d.BaseURL)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", d.Timeout)
	}
	if d.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0 (got %v)", d.RetryDelay)
	}
	if d.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be > 0 (got %d)", d.MaxBodyBytes)
	}
	return nil
}
