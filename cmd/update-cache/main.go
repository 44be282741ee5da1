// Command update-cache force-refreshes the countrybed cache, including
// flag art.
//
// Usage:
//
//	go run ./cmd/update-cache
//
// Configuration comes from COUNTRYBED_* environment variables or a .env
// file; COUNTRYBED_FLAG_WORKERS bounds concurrent flag renders.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/andreiashu/countrybed"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := countrybed.ConfigFromEnv(countrybed.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := countrybed.NewCacheStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Regenerating countrybed cache in %s...\n", store.Dir())

	syncer := countrybed.NewSynchronizer(cfg, store,
		countrybed.WithReporter(countrybed.LogReporter{Logger: logger}))
	snap, err := syncer.Sync(context.Background(), countrybed.SyncOptions{Force: true, WithFlagArt: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, countrybed.ErrFlagArt) {
			fmt.Fprintln(os.Stderr, "Country data was saved; flag art was not.")
		}
		os.Exit(1)
	}

	fmt.Printf("Cache regenerated: %d countries, %d flags.\n", snap.Index.Len(), len(snap.FlagArt))
}
