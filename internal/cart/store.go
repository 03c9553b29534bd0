package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/shopspring/decimal"
)

// Listener receives a snapshot of the cart after every mutation
type Listener func(lines []models.CartLine)

// Store is the single authoritative cart. Every mutation is mirrored to
// Storage under StorageKey before the call returns.
type Store struct {
	mu      sync.RWMutex
	lines   []models.CartLine
	storage Storage
	log     *slog.Logger

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int
}

// NewStore loads the cart from storage. A missing, unreadable or invalid
// document yields an empty cart; the failure is logged, never returned.
func NewStore(ctx context.Context, storage Storage, log *slog.Logger) *Store {
	s := &Store{
		storage: storage,
		log:     log,
		subs:    make(map[int]Listener),
	}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []models.CartLine {
	data, err := s.storage.Load(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn("failed to read stored cart, starting empty", "error", err)
		return nil
	}

	lines, err := decodeLines(data)
	if err != nil {
		s.log.Warn("stored cart is invalid, starting empty", "error", err)
		return nil
	}

	s.log.Debug("cart restored", "lines", len(lines))
	return lines
}

func decodeLines(data []byte) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("parse cart: %w", err)
	}

	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("duplicate cart line for product %d", l.ID)
		}
		seen[l.ID] = true
	}
	return lines, nil
}

// Add increments the quantity of the product's line, or appends a new line,
// and returns the resulting line. A quantity below 1 counts as 1. A line may
// not exceed models.MaxQuantity; quantity is not checked against stock.
func (s *Store) Add(ctx context.Context, product models.Product, quantity int) (models.CartLine, error) {
	if err := product.Validate(); err != nil {
		return models.CartLine{}, err
	}
	if quantity < 1 {
		quantity = 1
	}
	if quantity > models.MaxQuantity {
		return models.CartLine{}, fmt.Errorf("%w: %d exceeds %d", models.ErrInvalidQuantity, quantity, models.MaxQuantity)
	}

	var (
		line     models.CartLine
		rangeErr error
	)
	err := s.mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, bool) {
		i := indexOf(lines, product.ID)
		if i < 0 {
			lines = append(lines, models.CartLine{Product: product, Quantity: quantity})
			line = snapshot(lines[len(lines)-1:])[0]
			return lines, true
		}
		if lines[i].Quantity > models.MaxQuantity-quantity {
			rangeErr = fmt.Errorf("%w: %d + %d exceeds %d", models.ErrInvalidQuantity, lines[i].Quantity, quantity, models.MaxQuantity)
			return lines, false
		}
		lines[i].Quantity += quantity
		line = snapshot(lines[i : i+1])[0]
		return lines, true
	})
	if rangeErr != nil {
		return models.CartLine{}, rangeErr
	}
	return line, err
}

// Remove deletes the product's line. Absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, bool) {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines, false
		}
		return slices.Delete(lines, i, i+1), true
	})
}

// UpdateQuantity sets the line's quantity to exactly quantity. A quantity of
// zero or less removes the line; one above models.MaxQuantity is rejected.
// Absent ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	if quantity > models.MaxQuantity {
		return fmt.Errorf("%w: %d exceeds %d", models.ErrInvalidQuantity, quantity, models.MaxQuantity)
	}

	return s.mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, bool) {
		i := indexOf(lines, productID)
		if i < 0 || lines[i].Quantity == quantity {
			return lines, false
		}
		lines[i].Quantity = quantity
		return lines, true
	})
}

// Total is the sum of discounted price times quantity over all lines, unrounded.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemsCount is the sum of all line quantities
func (s *Store) ItemsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// LineCount is the number of distinct products in the cart
func (s *Store) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Lines returns a copy of the cart lines in insertion order
func (s *Store) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.lines)
}

// Line returns the line for productID, if present
func (s *Store) Line(productID int64) (models.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.lines, productID)
	if i < 0 {
		return models.CartLine{}, false
	}
	return snapshot(s.lines[i : i+1])[0], true
}

// Summary returns lines and totals read under a single lock
func (s *Store) Summary() models.CartSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := models.CartSummary{
		Lines:     snapshot(s.lines),
		LineCount: len(s.lines),
		Total:     decimal.Zero,
	}
	for _, l := range s.lines {
		sum.ItemsCount += l.Quantity
		sum.Total = sum.Total.Add(l.Subtotal())
	}
	return sum
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate applies fn to a copy of the lines. When fn reports a change, the new
// lines are persisted and become current, then listeners are notified outside
// the lock. A persistence failure keeps the in-memory change and is returned.
func (s *Store) mutate(ctx context.Context, fn func([]models.CartLine) ([]models.CartLine, bool)) error {
	s.mu.Lock()
	next, changed := fn(slices.Clone(s.lines))
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.lines = next
	err := s.persist(ctx)
	lines := snapshot(s.lines)
	s.mu.Unlock()

	s.notify(lines)
	return err
}

// persist must be called with s.mu held
func (s *Store) persist(ctx context.Context) error {
	lines := s.lines
	if lines == nil {
		lines = []models.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.storage.Save(ctx, StorageKey, data); err != nil {
		s.log.Error("failed to persist cart", "error", err)
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *Store) notify(lines []models.CartLine) {
	s.subMu.Lock()
	subs := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(lines)
	}
}

func indexOf(lines []models.CartLine, productID int64) int {
	return slices.IndexFunc(lines, func(l models.CartLine) bool {
		return l.ID == productID
	})
}

func snapshot(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	for i, l := range lines {
		l.Images = slices.Clone(l.Images)
		out[i] = l
	}
	return out
}
