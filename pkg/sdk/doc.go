// Package fanout runs batches of single-key lookups concurrently with a
// bounded number of in-flight queries and reports one outcome per key.
//
// # Store-backed client
//
//	client, _ := fanout.New(ctx, fanout.WithDynamoDB("orders", "eu-west-1"))
//	defer client.Close()
//	res, _ := client.Get(ctx, []string{"user#1", "user#2"}, fanout.WithConcurrency(8))
//	for _, o := range res.Outcomes {
//	    fmt.Println(o.Key, o.Status, len(o.Records))
//	}
//	retry := res.RetryableKeys()
//
// # Custom executor
//
//	exec := fanout.ExecutorFunc(func(ctx context.Context, key string) ([]fanout.Record, error) {
//	    return lookup(ctx, key)
//	})
//	res, err := fanout.Run(ctx, keys, exec, 4)
package fanout
