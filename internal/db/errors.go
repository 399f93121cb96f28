package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrTableNotFound = errors.New("db: table not found")
	ErrThrottled     = errors.New("db: request throttled")
)

// Op constants name the store call for error context.
const (
	OpPing          = "PING"
	OpGet           = "GET"
	OpSet           = "SET"
	OpHGetAll       = "HGETALL"
	OpQuery         = "Query"
	OpDescribeTable = "DescribeTable"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
