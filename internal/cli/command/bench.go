package command

import (
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

// benchCommand exercises an in-process table rather than a server, so it
// measures raw map throughput without protocol overhead.
func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "run an in-process put/get/del workout against a fresh table",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent workers"},
			&cli.IntFlag{Name: "keys", Value: 100000, Usage: "keys per worker"},
			&cli.IntFlag{Name: "capacity", Value: 1024, Usage: "bucket count"},
			&cli.BoolFlag{Name: "scatter", Usage: "use murmur3 bucket placement"},
		},
		Action: func(c *cli.Context) error {
			workers := c.Int("workers")
			keys := c.Int("keys")
			if workers < 1 || keys < 1 {
				return cli.Exit("workers and keys must be positive", 2)
			}

			var opts []chainmap.Option
			if c.Bool("scatter") {
				opts = append(opts, chainmap.WithScatterHash())
			}
			table, err := chainmap.New(c.Int("capacity"), opts...)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer table.Close()

			start := time.Now()
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(base int64) {
					defer wg.Done()
					// Disjoint key ranges per worker, so every put
					// inserts and every get and delete hits.
					for k := base; k < base+int64(keys); k++ {
						_, _ = table.Put(k, k*10)
					}
					for k := base; k < base+int64(keys); k++ {
						table.Get(k)
					}
					for k := base; k < base+int64(keys); k++ {
						table.Delete(k)
					}
				}(int64(w) * int64(keys))
			}
			wg.Wait()
			elapsed := time.Since(start)

			if got := table.Len(); got != 0 {
				return cli.Exit(fmt.Sprintf("size invariant violated: %d entries left", got), 1)
			}

			total := table.Ops()
			fmt.Fprintf(c.App.Writer, "workers:    %d\n", workers)
			fmt.Fprintf(c.App.Writer, "capacity:   %d\n", c.Int("capacity"))
			fmt.Fprintf(c.App.Writer, "operations: %d\n", total)
			fmt.Fprintf(c.App.Writer, "elapsed:    %s\n", elapsed.Round(time.Millisecond))
			fmt.Fprintf(c.App.Writer, "throughput: %.0f ops/sec\n", float64(total)/elapsed.Seconds())
			return nil
		},
	}
}
