package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/cache"
)

// openCache opens the prediction cache directory whether or not caching is
// enabled, so stale entries can still be removed. It returns nil when the
// directory does not exist.
func openCache(a *app) (*cache.FileStore, error) {
	dir := a.cfg.CacheDir()
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return cache.NewFileStore(dir, a.cfg.Classifier.CacheTTL)
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached prediction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			store, err := openCache(a)
			if err != nil {
				return err
			}
			removed := 0
			if store != nil {
				if removed, err = store.Clear(); err != nil {
					return err
				}
			}
			cmd.Printf("Removed %d cached prediction(s).\n", removed)
			return nil
		},
	}
}

// NewCachePruneCmd creates the cache prune command.
func NewCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached predictions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			store, err := openCache(a)
			if err != nil {
				return err
			}
			removed := 0
			if store != nil {
				if removed, err = store.Prune(); err != nil {
					return err
				}
			}
			cmd.Printf("Pruned %d expired prediction(s).\n", removed)
			return nil
		},
	}
}
