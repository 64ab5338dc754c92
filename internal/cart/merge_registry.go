package cart

import (
	"sync"

	"maison-be/internal/product"
)

// MergeRegistry hands out one MergeService per user so the at-most-once
// session guard is scoped to that user's login session.
type MergeRegistry struct {
	repo        Repository
	productRepo product.Repository

	mu       sync.Mutex
	sessions map[uint]*MergeService
}

func NewMergeRegistry(repo Repository, productRepo product.Repository) *MergeRegistry {
	return &MergeRegistry{
		repo:        repo,
		productRepo: productRepo,
		sessions:    map[uint]*MergeService{},
	}
}

func (r *MergeRegistry) For(userID uint) *MergeService {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.sessions[userID]
	if !ok {
		m = NewMergeService(r.repo, r.productRepo)
		r.sessions[userID] = m
	}
	return m
}

// EndSession drops the user's merge state on sign-out, so the next login
// starts back at not-attempted.
func (r *MergeRegistry) EndSession(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}
