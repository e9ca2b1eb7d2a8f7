package cart

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"FoodCart/internal/catalog"
	"FoodCart/internal/storage"
)

// StorageKey is where the cart snapshot lives inside a session bucket.
const StorageKey = "foodDeliveryCart"

// MaxQuantity caps a single line, keeping increments and totals well inside
// the int range.
const MaxQuantity = 9999

var ErrQuantityLimit = fmt.Errorf("quantity must not exceed %d", MaxQuantity)

// Catalog is the product lookup the cart needs for AddItem.
type Catalog interface {
	Get(ctx context.Context, id int) (catalog.Product, bool, error)
}

// Line is one product's entry in the cart. The product fields are a
// snapshot taken when the line was created, so later catalog edits do not
// reach lines already in a cart.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

type Options struct {
	Log     *zap.Logger
	Metrics *Metrics
}

// Store owns one session's cart. Every mutation writes the full snapshot
// to the bucket before returning; the in-memory lines only change once that
// write succeeded.
type Store struct {
	bucket  storage.Bucket
	catalog Catalog
	log     *zap.Logger
	metrics *Metrics

	lines []Line
}

// Restore loads the cart saved in bucket. A missing snapshot is an empty
// cart, and so is a snapshot that cannot be decoded; only storage failures
// are returned.
func Restore(ctx context.Context, bucket storage.Bucket, cat Catalog, opts Options) (*Store, error) {
	s := &Store{
		bucket:  bucket,
		catalog: cat,
		log:     opts.Log,
		metrics: opts.Metrics,
		lines:   []Line{},
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	raw, ok, err := bucket.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return s, nil
	}

	lines, err := decodeSnapshot(raw)
	if err != nil {
		s.log.Warn("discarding unreadable cart snapshot",
			zap.String("namespace", bucket.Namespace()),
			zap.Error(err),
		)
		s.metrics.recovered()
		if err := bucket.Delete(ctx, StorageKey); err != nil {
			s.log.Warn("drop unreadable cart snapshot failed", zap.Error(err))
		}
		return s, nil
	}

	s.lines = lines
	return s, nil
}

// AddItem puts one more of product id in the cart, appending a new line
// when the product is not in the cart yet. Unknown products are ignored, and
// so is a line already at MaxQuantity.
func (s *Store) AddItem(ctx context.Context, id int) error {
	p, ok, err := s.catalog.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup product %d: %w", id, err)
	}
	if !ok {
		return nil
	}

	i := s.index(id)
	if i >= 0 && s.lines[i].Quantity >= MaxQuantity {
		return nil
	}

	next := slices.Clone(s.lines)
	if i >= 0 {
		next[i].Quantity++
	} else {
		next = append(next, Line{Product: p, Quantity: 1})
	}

	return s.commit(ctx, opAdd, next)
}

// SetQuantity replaces the quantity of product id. A quantity of zero or
// less removes the line, one above MaxQuantity is rejected with
// ErrQuantityLimit. Products not in the cart are ignored.
func (s *Store) SetQuantity(ctx context.Context, id, quantity int) error {
	if quantity > MaxQuantity {
		return ErrQuantityLimit
	}

	i := s.index(id)
	if i < 0 {
		return nil
	}

	next := slices.Clone(s.lines)
	if quantity <= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next[i].Quantity = quantity
	}

	return s.commit(ctx, opSetQuantity, next)
}

func (s *Store) RemoveItem(ctx context.Context, id int) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.lines), i, i+1)
	return s.commit(ctx, opRemove, next)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, opClear, []Line{})
}

// Lines returns a copy of the cart in first-added order.
func (s *Store) Lines() []Line {
	return slices.Clone(s.lines)
}

func (s *Store) Line(id int) (Line, bool) {
	if i := s.index(id); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

func (s *Store) Len() int { return len(s.lines) }

func (s *Store) IsEmpty() bool { return len(s.lines) == 0 }

// TotalQuantity is the number of items in the cart, counting quantities.
func (s *Store) TotalQuantity() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Summary() Summary {
	return Summarize(s.lines)
}

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.lines, func(l Line) bool { return l.ID == id })
}

func (s *Store) commit(ctx context.Context, op string, next []Line) error {
	raw, err := encodeSnapshot(next)
	if err != nil {
		return err
	}
	if err := s.bucket.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.lines = next
	s.metrics.mutated(op)
	return nil
}
