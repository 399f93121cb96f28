package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/kailas-cloud/fanout/internal/db"
)

// Compile-time checks.
var (
	_ db.Pinger           = (*Store)(nil)
	_ db.ReadyWaiter      = (*Store)(nil)
	_ db.PartitionQuerier = (*Store)(nil)
)

// API is the subset of the DynamoDB client the store calls.
type API interface {
	dynamodb.QueryAPIClient
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Config holds table and request parameters.
type Config struct {
	Region         string
	Endpoint       string
	Table          string
	PartitionKey   string
	Projection     string
	ConsistentRead bool
	PageLimit      int32
}

// Store runs partition queries against one DynamoDB table.
type Store struct {
	api            API
	table          string
	partitionKey   string
	projection     string
	consistentRead bool
	pageLimit      int32
}

// NewStore loads the default AWS config chain and builds a table store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("table is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newStore(client, cfg), nil
}

func newStore(api API, cfg Config) *Store {
	pk := cfg.PartitionKey
	if pk == "" {
		pk = "pk"
	}
	return &Store{
		api:            api,
		table:          cfg.Table,
		partitionKey:   pk,
		projection:     cfg.Projection,
		consistentRead: cfg.ConsistentRead,
		pageLimit:      cfg.PageLimit,
	}
}

// Table returns the table name.
func (s *Store) Table() string { return s.table }

// Ping checks that the table exists and is active.
func (s *Store) Ping(ctx context.Context) error {
	out, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		return &db.Error{Op: db.OpDescribeTable, Err: classify(err)}
	}
	if out.Table != nil && out.Table.TableStatus != types.TableStatusActive {
		return &db.Error{
			Op:  db.OpDescribeTable,
			Err: fmt.Errorf("table %s is %s", s.table, out.Table.TableStatus),
		}
	}
	return nil
}

// WaitForReady pings immediately and then every 250ms until the table is
// active or timeout elapses. A table still being created counts as not ready.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		lastErr := s.Ping(ctx)
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("dynamodb table %s not ready after %s (last: %v): %w", s.table, timeout, lastErr, ctx.Err())
		case <-ticker.C:
		}
	}
}

// classify maps DynamoDB API error codes onto db sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.ErrorCode() {
	case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
		return fmt.Errorf("%w: %w", db.ErrThrottled, err)
	case "ResourceNotFoundException":
		return fmt.Errorf("%w: %w", db.ErrTableNotFound, err)
	default:
		return err
	}
}
