package offlinecart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

// Line is one offline cart entry, keyed by (ProductID, ColorVariant).
type Line struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	ColorVariant string `json:"color_variant,omitempty"`
}

const storeFile = "cart.json"

// Store holds the cart of an unauthenticated or offline session. Mutations
// never fail: persistence is best-effort and degrades to in-memory-only when
// the backing file cannot be written.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	path    string
	memOnly bool
}

// NewStore loads the persisted cart from dir. An unreadable or corrupt file
// starts an empty cart; an empty dir keeps the store memory-only.
func NewStore(dir string) *Store {
	s := &Store{}

	if dir == "" {
		s.memOnly = true
		return s
	}

	s.path = filepath.Join(dir, storeFile)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}

	if err := json.Unmarshal(data, &s.lines); err != nil {
		logger.L().Warn("offline cart file corrupt, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		s.lines = nil
	}

	return s
}

// persist writes the current lines to disk. The first failure flips the
// store to memory-only for the rest of the session.
func (s *Store) persist() {
	if s.memOnly {
		return
	}

	data, err := json.Marshal(s.lines)
	if err == nil {
		err = os.WriteFile(s.path, data, 0o600)
	}
	if err != nil {
		logger.L().Warn("offline cart persistence disabled for this session",
			zap.String("path", s.path),
			zap.Error(err),
		)
		s.memOnly = true
	}
}

func (s *Store) findIndex(productID, colorVariant string) int {
	for i, l := range s.lines {
		if l.ProductID == productID && l.ColorVariant == colorVariant {
			return i
		}
	}
	return -1
}

// AddOrUpdate merges quantityDelta into the line with the same key, clamping
// the result at zero; a line reaching zero is removed. A missing key appends
// a new line.
func (s *Store) AddOrUpdate(productID string, quantityDelta int, colorVariant string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(productID, colorVariant)
	if i < 0 {
		if quantityDelta <= 0 {
			return
		}
		s.lines = append(s.lines, Line{
			ProductID:    productID,
			Quantity:     quantityDelta,
			ColorVariant: colorVariant,
		})
		s.persist()
		return
	}

	qty := s.lines[i].Quantity + quantityDelta
	if qty <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = qty
	}
	s.persist()
}

// Remove deletes the matching line; no-op if absent.
func (s *Store) Remove(productID, colorVariant string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(productID, colorVariant)
	if i < 0 {
		return
	}

	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist()
}

// SetQuantity sets the absolute quantity for a line key; a quantity of zero
// or less removes the line.
func (s *Store) SetQuantity(productID, colorVariant string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(productID, colorVariant)

	if quantity <= 0 {
		if i >= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist()
		}
		return
	}

	if i < 0 {
		s.lines = append(s.lines, Line{
			ProductID:    productID,
			Quantity:     quantity,
			ColorVariant: colorVariant,
		})
	} else {
		s.lines[i].Quantity = quantity
	}
	s.persist()
}

// Count returns the sum of all line quantities, for the cart badge.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Lines returns a snapshot of the current cart lines.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Clear empties the cart, invoked after a successful merge into the server
// cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist()
}
