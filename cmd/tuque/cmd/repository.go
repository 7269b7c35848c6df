package cmd

import (
	"context"
	"fmt"

	"github.com/jonathangreen/tuque-sub001/pkg/config"
	"github.com/jonathangreen/tuque-sub001/pkg/dlogger"
	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/repository"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/storage"
	"github.com/jonathangreen/tuque-sub001/pkg/storage/bdgr"
	"github.com/jonathangreen/tuque-sub001/pkg/storage/localfs"
	"github.com/jonathangreen/tuque-sub001/pkg/transport"
	"github.com/jonathangreen/tuque-sub001/pkg/transport/embedded"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// openStore builds the storage configured for the embedded repository
func openStore(c *config.Config) (storage.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Store.Kind {
	case config.StoreLocalFS:
		if err := appFs.MkdirAll(c.Store.Dir, 0o700); err != nil {
			return nil, nil, err
		}
		return localfs.New(afero.NewBasePathFs(appFs, c.Store.Dir)), noop, nil
	case config.StoreBadger:
		s, err := bdgr.New(c.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StoreMemory:
		return localfs.New(afero.NewMemMapFs()), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
}

// openRepository builds a repository over the embedded transport
func openRepository(c *config.Config) (*repository.Repository, func() error, error) {
	logger, err := dlogger.GetLogger(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}

	tpt := transport.Instrument(nil, logger,
		embedded.New(store, embedded.WithLogger(logger), embedded.WithNamespace(c.Namespace)))

	opts := []repository.Option{
		repository.Logger(logger),
		repository.CacheCapacity(c.Cache.Capacity),
		repository.Namespace(c.Namespace),
	}
	if c.UUIDs {
		opts = append(opts, repository.UUIDIdentifiers(nil))
	}
	if c.Cache.Metrics {
		opts = append(opts, repository.CacheMetrics(prometheus.DefaultRegisterer, "tuque"))
	}
	return repository.New(tpt, opts...), func() error {
		_ = logger.Sync()
		return closeStore()
	}, nil
}

type repositoryRunner func(ctx context.Context, cmd *cobra.Command, repo *repository.Repository, args []string) error

// withRepository runs a command against the configured repository
func withRepository(name string, fn repositoryRunner) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		repo, closeRepo, err := openRepository(cfg)
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		err = fn(context.Background(), cmd, repo, args)
		if cerr := closeRepo(); err == nil {
			err = cerr
		}
		switch {
		case err == nil:
		case errors.Is(err, status.ErrNotFound):
			wrapFatalWithCodef(exitNotFound, "%s: %v", name, err)
		case errors.Is(err, status.ErrConcurrentModification), errors.Is(err, status.ErrExists), errors.Is(err, status.ErrDuplicateDatastream):
			wrapFatalWithCodef(exitConflict, "%s: %v", name, err)
		default:
			wrapFatalln(name, err)
		}
	}
}
