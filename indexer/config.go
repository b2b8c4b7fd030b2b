package indexer

import "github.com/ic-timon/vpsearch"

// Config holds index parameters.
type Config struct {
	K        int              // neighbours per query, default 4
	Workers  int              // query workers; <= 1 runs queries sequentially
	Logger   *vpsearch.Logger // default NoopLogger
	Progress func(done, total int)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		K:       4,
		Workers: 1,
		Logger:  vpsearch.NoopLogger(),
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.K <= 0 {
		c.K = 4
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Logger == nil {
		c.Logger = vpsearch.NoopLogger()
	}
	return c
}

func (c *Config) progress(done, total int) {
	if c.Progress != nil {
		c.Progress(done, total)
	}
}
