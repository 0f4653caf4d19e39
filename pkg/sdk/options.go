package trinetra

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	keyPrefix     string
	maxPerChannel int

	zeroShot *zeroShotConfig

	keywordGroups []KeywordGroup

	logger *zap.Logger
}

type zeroShotConfig struct {
	apiKey  string
	baseURL string
	model   string
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the storage key prefix. Default: "trinetra:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxResultsPerChannel caps how many classification records are
// retained per channel. Zero or negative disables capping.
// Default: 1000.
func WithMaxResultsPerChannel(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPerChannel = n
	})
}

// WithZeroShot switches the semantic scorer to a zero-shot model behind
// an OpenAI-compatible API. Without this option the dependency-free
// heuristic scorer is used. baseURL and model may be empty to take the
// provider defaults.
func WithZeroShot(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.zeroShot = &zeroShotConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithKeywordGroups replaces the built-in keyword registry.
func WithKeywordGroups(groups []KeywordGroup) Option {
	return optionFunc(func(c *clientConfig) {
		c.keywordGroups = groups
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
