package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/repositories"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
)

// Enricher decorates books with their owner's contact fields. It never
// fails: an owner that cannot be resolved leaves the fields empty.
type Enricher struct {
	users       repositories.UserStore
	concurrency int
}

func NewEnricher(users repositories.UserStore, concurrency int) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{users: users, concurrency: concurrency}
}

// Enrich returns one EnrichedBook per input book, in the same order.
func (e *Enricher) Enrich(ctx context.Context, books []models.Book) []models.EnrichedBook {
	out := make([]models.EnrichedBook, len(books))
	if len(books) == 0 {
		return out
	}

	ids := distinctOwners(books)
	owners := e.lookup(ctx, ids)

	missing := 0
	for i, b := range books {
		out[i].Book = b
		if u, ok := owners[b.OwnerID]; ok {
			out[i].OwnerName = u.Name
			out[i].OwnerEmail = u.Email
			out[i].OwnerMobile = u.Mobile
		} else {
			missing++
		}
	}
	if missing > 0 {
		logger.WithCtx(ctx).Debug("listings without resolvable owner", "count", missing)
	}
	return out
}

func distinctOwners(books []models.Book) []string {
	seen := make(map[string]struct{}, len(books))
	ids := make([]string, 0, len(books))
	for _, b := range books {
		if _, dup := seen[b.OwnerID]; dup {
			continue
		}
		seen[b.OwnerID] = struct{}{}
		ids = append(ids, b.OwnerID)
	}
	return ids
}

// lookup resolves owners with one batch query, falling back to bounded
// per-owner lookups if the batch fails.
func (e *Enricher) lookup(ctx context.Context, ids []string) map[string]*models.User {
	log := logger.WithCtx(ctx)

	owners, err := e.users.FindByIDs(ctx, ids)
	if err == nil {
		if n := len(ids) - len(owners); n > 0 {
			metrics.EnrichmentFailures.WithLabelValues("missing").Add(float64(n))
		}
		return owners
	}
	log.Warn("batch owner lookup failed, falling back to single lookups", "owners", len(ids), "error", err)

	found := make([]*models.User, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			u, err := e.users.FindByID(gctx, id)
			switch {
			case err == nil:
				found[i] = u
			case errors.Is(err, repositories.ErrNotFound):
				metrics.EnrichmentFailures.WithLabelValues("missing").Inc()
			default:
				metrics.EnrichmentFailures.WithLabelValues("error").Inc()
				log.Warn("owner lookup failed", "owner_id", id, "error", err)
			}
			// never cancel siblings
			return nil
		})
	}
	_ = g.Wait()

	owners = make(map[string]*models.User, len(ids))
	for i, u := range found {
		if u != nil {
			owners[ids[i]] = u
		}
	}
	return owners
}
