package cart

import (
	"context"
	"sync"

	"maison-be/internal/logger"
	"maison-be/internal/offlinecart"
	"maison-be/internal/product"

	"go.uber.org/zap"
)

// MergeState tracks whether the offline cart has been reconciled into the
// server cart during the current login session.
type MergeState int

const (
	MergeNotAttempted MergeState = iota
	MergeInFlight
	MergeDone
	MergeFailed
)

func (s MergeState) String() string {
	switch s {
	case MergeNotAttempted:
		return "not-attempted"
	case MergeInFlight:
		return "in-flight"
	case MergeDone:
		return "done"
	case MergeFailed:
		return "failed"
	}
	return "unknown"
}

type MergeResult struct {
	ItemsAdded int `json:"items_added"`
}

// MergeService reconciles offline cart lines into the authenticated user's
// server cart with at-most-once semantics per session. The merge sums
// quantities, so running it twice against the same offline snapshot would
// double-count; the state machine is the only protection against that.
type MergeService struct {
	repo        Repository
	productRepo product.Repository

	mu    sync.Mutex
	state MergeState
}

func NewMergeService(repo Repository, productRepo product.Repository) *MergeService {
	return &MergeService{repo: repo, productRepo: productRepo}
}

// State reports the current merge state.
func (m *MergeService) State() MergeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns the state machine to NotAttempted, called on sign-out.
func (m *MergeService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = MergeNotAttempted
}

// begin claims the merge attempt before any asynchronous work starts, so a
// second trigger from a rapid auth-state event cannot race in.
func (m *MergeService) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case MergeInFlight:
		return ErrMergeInFlight
	case MergeDone:
		return ErrMergeAlreadyHandled
	}

	// NotAttempted or Failed: Failed permits a manual retry.
	m.state = MergeInFlight
	return nil
}

func (m *MergeService) finish(state MergeState) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// Merge reconciles the offline store into userID's server cart: a union with
// quantity-summing, new lines snapshotting the current product price. On
// success the offline store is cleared; on failure it is left intact so
// nothing is lost.
func (m *MergeService) Merge(ctx context.Context, userID uint, store *offlinecart.Store) (MergeResult, error) {
	if userID == 0 {
		return MergeResult{}, ErrUserNotAuthenticated
	}

	if err := m.begin(); err != nil {
		return MergeResult{}, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Merge"),
		zap.Uint("user_id", userID),
	)

	lines := store.Lines()
	if len(lines) == 0 {
		log.Info("offline cart empty, nothing to merge")
		m.finish(MergeDone)
		return MergeResult{}, nil
	}

	result, err := m.apply(ctx, userID, lines)
	if err != nil {
		log.Warn("cart merge failed, offline cart kept", zap.Error(err))
		m.finish(MergeFailed)
		return MergeResult{}, err
	}

	store.Clear()
	m.finish(MergeDone)

	log.Info("cart merge completed", zap.Int("items_added", result.ItemsAdded))

	return result, nil
}

func (m *MergeService) apply(ctx context.Context, userID uint, lines []offlinecart.Line) (MergeResult, error) {
	c, err := m.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return MergeResult{}, err
	}

	added := 0

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		var variant *string
		if line.ColorVariant != "" {
			v := line.ColorVariant
			variant = &v
		}

		item, err := m.repo.GetItemByKey(ctx, c.ID, line.ProductID, variant)
		if err != nil {
			return MergeResult{}, err
		}

		if item != nil {
			if _, err := m.repo.UpdateItemQuantity(ctx, item.ID, item.Quantity+line.Quantity); err != nil {
				return MergeResult{}, err
			}
			added++
			continue
		}

		p, err := m.productRepo.GetProductByID(ctx, product.GetProductOptions{
			ProductID:  line.ProductID,
			OnlyActive: true,
		})
		if err != nil {
			return MergeResult{}, err
		}
		if p == nil {
			// Product retired while the cart sat offline; skip the line.
			continue
		}

		_, err = m.repo.CreateItem(ctx, CreateItemParams{
			CartID:       c.ID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			PriceAtTime:  p.Price,
			ColorVariant: variant,
		})
		if err != nil {
			return MergeResult{}, err
		}
		added++
	}

	if err := m.repo.RefreshCartTotal(ctx, c.ID); err != nil {
		return MergeResult{}, err
	}

	return MergeResult{ItemsAdded: added}, nil
}
