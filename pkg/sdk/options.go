package fanout

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "dynamodb", "redis", "valkey" or "" for a custom executor
	executor Executor

	// dynamodb
	table          string
	region         string
	endpoint       string
	partitionKey   string
	consistentRead bool

	// redis / valkey
	addrs     []string
	password  string
	keyPrefix string

	maxConcurrency int
	maxBatchSize   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDynamoDB queries the partitions of a DynamoDB table.
// Credentials come from the default AWS chain; region may be empty.
func WithDynamoDB(table, region string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "dynamodb"
		c.table = table
		c.region = region
	})
}

// WithDynamoDBEndpoint overrides the DynamoDB endpoint (DynamoDB Local, LocalStack).
func WithDynamoDBEndpoint(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.endpoint = url
	})
}

// WithPartitionKey sets the partition key attribute name. Default: "pk".
func WithPartitionKey(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.partitionKey = name
	})
}

// WithConsistentRead requests strongly consistent DynamoDB reads.
func WithConsistentRead() Option {
	return optionFunc(func(c *clientConfig) {
		c.consistentRead = true
	})
}

// WithRedis reads hashes from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithValkey reads hashes from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces Redis/Valkey keys. Default: "fanout:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithExecutor uses a caller-supplied executor instead of a managed store.
func WithExecutor(e Executor) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = ""
		c.executor = e
	})
}

// WithMaxConcurrency sets the default and upper bound of in-flight lookups.
// Default: 16.
func WithMaxConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConcurrency = n
	})
}

// WithMaxBatchSize sets the maximum number of keys per Get.
// Default: 1000.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// GetOption configures a single Get call.
type GetOption func(*getConfig)

type getConfig struct {
	concurrency int
}

// WithConcurrency bounds in-flight lookups for one call.
// Values above the client's maximum are clamped; zero means the maximum.
func WithConcurrency(n int) GetOption {
	return func(g *getConfig) {
		g.concurrency = n
	}
}
