// Shared helpers for pitvault CLI commands.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/minetrics/pitvault/internal/app"
	"github.com/minetrics/pitvault/internal/blobstore"
	"github.com/minetrics/pitvault/internal/recordstore"
	"github.com/minetrics/pitvault/pkg/types"
)

// resolveStoreConfig builds the store configuration from the resolved
// data directory and the config.yaml limits.
func resolveStoreConfig() (types.Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		DataDir:        dataDir,
		QuotaBytes:     configQuota,
		SoftLimitBytes: configSoftLimit,
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// openStores opens the record and photo stores over the resolved data
// directory. The caller must call the returned close function.
func openStores(ctx context.Context) (*recordstore.Store, *blobstore.Store, func(), error) {
	cfg, err := resolveStoreConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	records, err := recordstore.Open(afero.NewOsFs(), cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open record store: %w", err)
	}

	blobs := blobstore.NewStore()
	if err := blobs.Open(ctx, cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("open photo store: %w", err)
	}

	return records, blobs, func() { blobs.Close() }, nil
}

// openApp opens both stores, runs the schema migration, and returns a
// loaded session. The caller must call the returned close function.
func openApp(ctx context.Context) (*app.App, func(), error) {
	records, blobs, closeStores, err := openStores(ctx)
	if err != nil {
		return nil, nil, err
	}

	a := app.New(records, blobs)
	if _, err := a.Load(ctx); err != nil {
		closeStores()
		return nil, nil, err
	}
	return a, closeStores, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// warnSoftLimit prints the back-up-and-prune advisory when the record
// store sits above its soft threshold after a command ran.
func warnSoftLimit(a *app.App) {
	if over, _ := a.OverSoftLimit(); over {
		fmt.Println("Warning: record store is over the soft limit; back up and prune old data.")
	}
}

// confirm prints the prompt and reads a yes/no answer from stdin.
// Anything other than "y" or "yes" declines.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
