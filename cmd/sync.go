package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"search-sync/core/document"
	"search-sync/core/job"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// Flags for the sync command
	syncWiki      string
	syncSpace     string
	syncName      string
	syncLocale    string
	syncOverwrite bool
	syncAllWikis  bool
	syncDryRun    bool
)

// syncCmd runs synchronization jobs in the foreground.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the search index with the document store",
	Long: `Compares the search index with the document store and applies the difference.

Examples:
  # Incremental synchronization of everything
  search-sync sync

  # One space (and its nested spaces) of one wiki
  search-sync sync --wiki xwiki --space Main.Sub

  # Rebuild every wiki in parallel
  search-sync sync --all-wikis --overwrite

  # Report what would change without touching the index
  search-sync sync --wiki xwiki --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncWiki, "wiki", "", "Restrict to a wiki")
	syncCmd.Flags().StringVar(&syncSpace, "space", "", "Restrict to a space, segments separated by '.' (requires --wiki)")
	syncCmd.Flags().StringVar(&syncName, "name", "", "Restrict to a single document (requires --space)")
	syncCmd.Flags().StringVar(&syncLocale, "locale", "", "Restrict a single document to one locale (requires --name)")
	syncCmd.Flags().BoolVar(&syncOverwrite, "overwrite", false, "Rebuild the scope instead of synchronizing incrementally")
	syncCmd.Flags().BoolVar(&syncAllWikis, "all-wikis", false, "Run one job per wiki of the store, in parallel")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Compute the difference without modifying the index")

	RootCmd.AddCommand(syncCmd)
}

// scopeFromFlags builds the job scope. No flag means every document.
func scopeFromFlags(wiki, space, name, locale string) (*document.Scope, error) {
	if wiki == "" && space == "" && name == "" && locale == "" {
		return nil, nil
	}
	scope := &document.Scope{
		Wiki:   wiki,
		Space:  document.SplitSpace(space),
		Name:   name,
		Locale: locale,
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return scope, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncAllWikis && (syncWiki != "" || syncSpace != "" || syncName != "" || syncLocale != "") {
		return errors.New("--all-wikis cannot be combined with a scope")
	}
	if syncDryRun && syncOverwrite {
		return errors.New("--dry-run only applies to incremental synchronization")
	}
	scope, err := scopeFromFlags(syncWiki, syncSpace, syncName, syncLocale)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	indexer := rt.indexer
	if syncDryRun {
		indexer = dryRunIndexer{log: rt.log}
	}
	deps := rt.dependencies(indexer)
	scheduler := rt.scheduler()

	if !syncAllWikis {
		_, err := scheduler.Run(ctx, job.New(job.Request{Scope: scope, Overwrite: syncOverwrite}, deps))
		return err
	}

	wikis, err := rt.querier.Wikis(ctx)
	if err != nil {
		return err
	}
	rt.log.Info("Synchronizing wikis", zap.Int("wikis", len(wikis)), zap.Int("workers", rt.cfg.Sync.Workers))

	return syncWikis(ctx, scheduler, deps, wikis, syncOverwrite, rt.cfg.Sync.Workers)
}

// syncWikis runs one job per wiki with at most workers jobs at a time.
// Wiki scopes never overlap, so the scheduler admits them concurrently.
// A failing wiki does not stop the others; all failures are returned.
func syncWikis(ctx context.Context, scheduler *job.Scheduler, deps job.Dependencies, wikis []string, overwrite bool, workers int) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, wiki := range wikis {
		g.Go(func() error {
			_, err := scheduler.Run(ctx, job.New(job.Request{Scope: document.WikiScope(wiki), Overwrite: overwrite}, deps))
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("wiki %s: %w", wiki, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// dryRunIndexer logs mutations instead of applying them.
type dryRunIndexer struct {
	log *zap.Logger
}

func (d dryRunIndexer) IndexDocument(_ context.Context, key document.Key, _ bool) error {
	d.log.Info("Would index document", zap.String("key", key.String()))
	return nil
}

func (d dryRunIndexer) DeleteDocument(_ context.Context, key document.Key, _ bool) error {
	d.log.Info("Would delete document", zap.String("key", key.String()))
	return nil
}

func (d dryRunIndexer) IndexScope(_ context.Context, scope *document.Scope, _ bool) error {
	d.log.Info("Would rebuild scope", zap.String("scope", scope.String()))
	return nil
}
