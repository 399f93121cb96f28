package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	logpkg "github.com/kailas-cloud/fanout/internal/logger"
)

func getCmd(open opener, opts *globalOptions) *cobra.Command {
	var concurrency int
	var fromStdin bool
	var timeout time.Duration
	var format string

	c := &cobra.Command{
		Use:   "get [KEY...]",
		Short: "Look up keys concurrently and print one outcome per key",
		Example: `  fanoutctl get user#1 user#2 --concurrency 8
  cat keys.txt | fanoutctl get --stdin --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := args
			if fromStdin {
				more, err := readKeys(cmd.InOrStdin())
				if err != nil {
					return err
				}
				keys = append(keys, more...)
			}
			if len(keys) == 0 {
				return fmt.Errorf("no keys given (pass KEY arguments or --stdin)")
			}

			// Ctrl-C stops admitting new lookups; finished ones are still printed.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			svc, err := open(ctx, *opts)
			if err != nil {
				return err
			}
			defer svc.close()
			if svc.logger != nil {
				ctx = logpkg.ContextWithLogger(ctx, svc.logger)
			}

			result, err := svc.batch.Get(ctx, keys, concurrency)
			if err != nil {
				return err
			}

			if err := printResult(cmd.OutOrStdout(), result, format); err != nil {
				return err
			}
			if n := result.Failed() + result.Cancelled(); n > 0 {
				return fmt.Errorf("%d of %d key(s) not fetched", n, result.Len())
			}
			return nil
		},
	}

	c.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Max in-flight lookups (0 = configured default)")
	c.Flags().BoolVar(&fromStdin, "stdin", false, "Read additional keys from stdin, one per line")
	c.Flags().DurationVar(&timeout, "timeout", 0, "Cancel lookups not started within this duration (0 = none)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

// readKeys reads one key per line, skipping blank lines.
func readKeys(r io.Reader) ([]string, error) {
	var keys []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		keys = append(keys, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read keys from stdin: %w", err)
	}
	return keys, nil
}
