package service

import (
	"context"
	"errors"
	"time"

	"github.com/crumbworks/bakeops/internal/cache"
	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/pos"
	"github.com/crumbworks/bakeops/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	syncCheckpointKey = "pos_sales_last_sync"

	// autoSyncInterval is the minimum gap between automatic syncs. Manual
	// syncs bypass it.
	autoSyncInterval = time.Hour

	// initialSyncLookback bounds the first ever import.
	initialSyncLookback = 7 * 24 * time.Hour
)

// ErrSyncDisabled is returned when no POS credentials are configured.
var ErrSyncDisabled = errors.New("pos sync is not configured")

// SyncResult reports what one sync run did.
type SyncResult struct {
	Ran        bool `json:"ran"`
	Imported   int  `json:"imported"`
	Duplicates int  `json:"duplicates"`
	Applied    int  `json:"applied"`
}

// SyncService imports the POS catalog and sales ledger. Imports are
// idempotent: sales deduplicate on the POS transaction id, and usage
// derivation is guarded by the per-sale applied flag.
type SyncService struct {
	pos      *pos.Client
	sales    repository.SalesRepository
	recipes  repository.RecipeRepository
	settings repository.SettingsRepository
	usage    *UsageService
	profit   *ProfitService
	limiter  cache.SyncLimiter
}

func NewSyncService(
	posClient *pos.Client,
	sales repository.SalesRepository,
	recipes repository.RecipeRepository,
	settings repository.SettingsRepository,
	usage *UsageService,
	profit *ProfitService,
	limiter cache.SyncLimiter,
) *SyncService {
	if limiter == nil {
		limiter = cache.NewNoopSyncLimiter()
	}
	return &SyncService{
		pos:      posClient,
		sales:    sales,
		recipes:  recipes,
		settings: settings,
		usage:    usage,
		profit:   profit,
		limiter:  limiter,
	}
}

// SyncSales pulls new POS transactions since the last checkpoint. When force
// is false the run is gated to at most one per interval; a gated run returns
// a result with Ran false.
func (s *SyncService) SyncSales(ctx context.Context, force bool) (*SyncResult, error) {
	if s.pos == nil || !s.pos.Enabled() {
		return nil, ErrSyncDisabled
	}

	if !force {
		acquired, err := s.limiter.Acquire(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("sync limiter unavailable, falling back to checkpoint")
			acquired = true
		}
		if !acquired || !s.checkpointExpired(ctx) {
			return &SyncResult{}, nil
		}
	}

	since := s.lastCheckpoint(ctx)
	txns, err := s.pos.ListTransactions(ctx, since)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*domain.Recipe, len(recipes))
	for _, recipe := range recipes {
		byName[recipe.Name] = recipe
	}

	result := &SyncResult{Ran: true}
	for _, txn := range txns {
		sale := &domain.Sale{
			POSTransactionID: txn.ID,
			ItemName:         txn.ItemName,
			Quantity:         txn.Quantity,
			TotalAmount:      txn.TotalAmount,
			Timestamp:        txn.Timestamp,
		}

		inserted, err := s.sales.CreateIfNew(ctx, sale)
		if err != nil {
			return result, err
		}
		if !inserted {
			result.Duplicates++
			continue
		}
		result.Imported++

		if recipe, ok := byName[sale.ItemName]; ok {
			day := sale.Timestamp.UTC().Truncate(24 * time.Hour)
			if err := s.profit.RecordSnapshot(ctx, recipe, day, sale.Quantity); err != nil {
				log.Warn().Err(err).Str("item", sale.ItemName).Msg("profit snapshot failed")
			}
		}
	}

	applied, err := s.usage.ApplyPendingSales(ctx)
	if err != nil {
		return result, err
	}
	result.Applied = applied

	if err := s.settings.Set(ctx, syncCheckpointKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Msg("failed to store sync checkpoint")
	}

	log.Info().
		Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).
		Int("applied", result.Applied).
		Msg("pos sales sync completed")

	return result, nil
}

// AutoSync is the dashboard-triggered variant: rate limited, and a missing
// POS integration is not an error.
func (s *SyncService) AutoSync(ctx context.Context) {
	result, err := s.SyncSales(ctx, false)
	if errors.Is(err, ErrSyncDisabled) {
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("auto sync failed")
		return
	}
	if result.Ran {
		log.Debug().Int("imported", result.Imported).Msg("auto sync ran")
	}
}

// SyncCatalog upserts recipes from the POS catalog, keyed by the external
// item id. New items arrive without a bill of materials; costing starts
// once ingredients are assigned.
func (s *SyncService) SyncCatalog(ctx context.Context) (int, error) {
	if s.pos == nil || !s.pos.Enabled() {
		return 0, ErrSyncDisabled
	}

	items, err := s.pos.ListCatalog(ctx)
	if err != nil {
		return 0, err
	}

	upserted := 0
	for _, item := range items {
		if item.Name == "" {
			continue
		}

		existing, err := s.recipes.GetByPOSItemID(ctx, item.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return upserted, err
		}

		if existing != nil {
			existing.Name = item.Name
			existing.SalePrice = item.Price
			if err := s.recipes.Update(ctx, existing); err != nil {
				return upserted, err
			}
		} else {
			posID := item.ID
			recipe := &domain.Recipe{
				Name:      item.Name,
				POSItemID: &posID,
				SalePrice: item.Price,
			}
			if err := s.recipes.Create(ctx, recipe); err != nil {
				if errors.Is(err, domain.ErrDuplicateName) {
					log.Warn().Str("item", item.Name).Msg("catalog item name collides with existing recipe")
					continue
				}
				return upserted, err
			}
		}
		upserted++
	}

	log.Info().Int("items", upserted).Msg("pos catalog sync completed")
	return upserted, nil
}

func (s *SyncService) lastCheckpoint(ctx context.Context) time.Time {
	value, err := s.settings.Get(ctx, syncCheckpointKey)
	if err == nil {
		if t, perr := time.Parse(time.RFC3339, value); perr == nil {
			return t
		}
	}
	return time.Now().Add(-initialSyncLookback)
}

func (s *SyncService) checkpointExpired(ctx context.Context) bool {
	value, err := s.settings.Get(ctx, syncCheckpointKey)
	if err != nil {
		return true
	}
	last, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(last) >= autoSyncInterval
}
