package cart

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"FoodCart/internal/catalog"
	"FoodCart/internal/storage"
)

func newCart(t *testing.T) (*Store, *storage.MemStore) {
	t.Helper()

	kv := storage.NewMemStore()
	s, err := Restore(context.Background(), storage.Scope(kv, "sid"), catalog.NewStore(), Options{Log: zap.NewNop()})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	return s, kv
}

func mustAdd(t *testing.T, s *Store, ids ...int) {
	t.Helper()
	for _, id := range ids {
		if err := s.AddItem(context.Background(), id); err != nil {
			t.Fatalf("AddItem(%d): %v", id, err)
		}
	}
}

func lineIDs(s *Store) []int {
	out := []int{}
	for _, l := range s.Lines() {
		out = append(out, l.ID)
	}
	return out
}

func TestAddItem_AppendsThenIncrements(t *testing.T) {
	s, _ := newCart(t)

	mustAdd(t, s, 3, 1, 3)

	if got := lineIDs(s); len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("order=%v", got)
	}
	if l, _ := s.Line(3); l.Quantity != 2 {
		t.Fatalf("qty(3)=%d", l.Quantity)
	}
	if l, _ := s.Line(1); l.Quantity != 1 || l.Name != "Margherita Pizza" {
		t.Fatalf("line(1)=%+v", l)
	}
	if s.TotalQuantity() != 3 {
		t.Fatalf("total=%d", s.TotalQuantity())
	}
}

func TestAddItem_UnknownProductIsNoop(t *testing.T) {
	s, kv := newCart(t)

	if err := s.AddItem(context.Background(), 999); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if !s.IsEmpty() {
		t.Fatalf("cart not empty")
	}
	if _, ok, _ := kv.Get(context.Background(), "sid", StorageKey); ok {
		t.Fatalf("no-op wrote a snapshot")
	}
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		qty     int
		wantQty int
		gone    bool
	}{
		{name: "raise", qty: 7, wantQty: 7},
		{name: "at the cap", qty: MaxQuantity, wantQty: MaxQuantity},
		{name: "zero removes", qty: 0, gone: true},
		{name: "negative removes", qty: -5, gone: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newCart(t)
			mustAdd(t, s, 2, 5)

			if err := s.SetQuantity(ctx, 2, tc.qty); err != nil {
				t.Fatalf("SetQuantity: %v", err)
			}

			l, ok := s.Line(2)
			if tc.gone {
				if ok {
					t.Fatalf("line kept with qty=%d", l.Quantity)
				}
				if s.Len() != 1 {
					t.Fatalf("len=%d", s.Len())
				}
				return
			}
			if !ok || l.Quantity != tc.wantQty {
				t.Fatalf("line=%+v ok=%v", l, ok)
			}
		})
	}
}

func TestQuantityLimit(t *testing.T) {
	ctx := context.Background()
	s, kv := newCart(t)
	mustAdd(t, s, 1, 2)

	for _, qty := range []int{MaxQuantity + 1, math.MaxInt} {
		if err := s.SetQuantity(ctx, 1, qty); !errors.Is(err, ErrQuantityLimit) {
			t.Fatalf("SetQuantity(%d) err=%v", qty, err)
		}
	}
	if l, _ := s.Line(1); l.Quantity != 1 {
		t.Fatalf("rejected quantity applied: %d", l.Quantity)
	}

	for _, id := range []int{1, 2} {
		if err := s.SetQuantity(ctx, id, MaxQuantity); err != nil {
			t.Fatalf("SetQuantity: %v", err)
		}
	}
	mustAdd(t, s, 1)

	if l, _ := s.Line(1); l.Quantity != MaxQuantity {
		t.Fatalf("qty=%d", l.Quantity)
	}
	if got := s.TotalQuantity(); got != 2*MaxQuantity {
		t.Fatalf("total=%d", got)
	}

	again, err := Restore(ctx, storage.Scope(kv, "sid"), catalog.NewStore(), Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if again.Len() != 2 || again.TotalQuantity() != 2*MaxQuantity {
		t.Fatalf("restored lines=%+v", again.Lines())
	}
}

func TestSetQuantity_MissingLineIsNoop(t *testing.T) {
	s, _ := newCart(t)
	mustAdd(t, s, 1)

	if err := s.SetQuantity(context.Background(), 4, 3); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if got := lineIDs(s); len(got) != 1 || got[0] != 1 {
		t.Fatalf("lines=%v", got)
	}
}

func TestRemoveItem_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newCart(t)
	mustAdd(t, s, 1, 2, 3)

	for i := 0; i < 2; i++ {
		if err := s.RemoveItem(ctx, 2); err != nil {
			t.Fatalf("RemoveItem #%d: %v", i, err)
		}
	}
	if got := lineIDs(s); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("lines=%v", got)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, kv := newCart(t)
	mustAdd(t, s, 1, 1, 8)

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if !s.IsEmpty() || s.TotalQuantity() != 0 {
		t.Fatalf("cart not empty")
	}

	raw, ok, _ := kv.Get(ctx, "sid", StorageKey)
	if !ok || raw != "[]" {
		t.Fatalf("persisted=%q ok=%v", raw, ok)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newCart(t)
	mustAdd(t, s, 4, 1, 4, 7)
	if err := s.SetQuantity(ctx, 7, 5); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	again, err := Restore(ctx, storage.Scope(kv, "sid"), catalog.NewStore(), Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	want := s.Lines()
	got := again.Lines()
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Quantity != want[i].Quantity || !got[i].Price.Equal(want[i].Price) {
			t.Fatalf("line %d got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestRestore_SnapshotIsIndependentOfCatalog(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemStore()
	bucket := storage.Scope(kv, "sid")

	s, _ := Restore(ctx, bucket, catalog.NewStore(), Options{})
	mustAdd(t, s, 1)

	repriced := catalog.Defaults()
	repriced[0].Price = repriced[0].Price.Add(repriced[0].Price)
	s2, _ := Restore(ctx, bucket, catalog.NewMemStore(repriced), Options{})

	l, _ := s2.Line(1)
	if l.Price.StringFixed(2) != "12.99" {
		t.Fatalf("price=%s", l.Price)
	}

	mustAdd(t, s2, 1)
	l, _ = s2.Line(1)
	if l.Quantity != 2 || l.Price.StringFixed(2) != "12.99" {
		t.Fatalf("line=%+v", l)
	}
}

func TestRestore_CorruptSnapshotsBecomeEmpty(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{{`,
		"object":          `{"id":1}`,
		"zero quantity":   `[{"id":1,"name":"x","price":"1.00","quantity":0}]`,
		"missing id":      `[{"name":"x","price":"1.00","quantity":1}]`,
		"duplicate ids":   `[{"id":1,"quantity":1},{"id":1,"quantity":2}]`,
		"negative price":  `[{"id":1,"price":"-2","quantity":1}]`,
		"string quantity": `[{"id":1,"quantity":"2"}]`,
		"over the cap":    `[{"id":1,"price":"1.00","quantity":10000}]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemStore()
			_ = kv.Set(ctx, "sid", StorageKey, raw)

			reg := prometheus.NewRegistry()
			m := NewMetrics(reg)

			s, err := Restore(ctx, storage.Scope(kv, "sid"), catalog.NewStore(), Options{Log: zap.NewNop(), Metrics: m})
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if !s.IsEmpty() {
				t.Fatalf("lines=%+v", s.Lines())
			}
			if got := testutil.ToFloat64(m.Recovered); got != 1 {
				t.Fatalf("recovered=%v", got)
			}
			if _, ok, _ := kv.Get(ctx, "sid", StorageKey); ok {
				t.Fatalf("unreadable snapshot kept")
			}
		})
	}
}

func TestRestore_AcceptsNumericPrices(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemStore()
	_ = kv.Set(ctx, "sid", StorageKey, `[{"id":1,"name":"Margherita Pizza","price":12.99,"category":"Pizza","quantity":2}]`)

	s, err := Restore(ctx, storage.Scope(kv, "sid"), catalog.NewStore(), Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := s.Summary().Format().Subtotal; got != "25.98" {
		t.Fatalf("subtotal=%s", got)
	}
}

type failingStore struct {
	storage.Store
	getErr error
	setErr error
}

func (f failingStore) Get(ctx context.Context, ns, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(ctx, ns, key)
}

func (f failingStore) Set(ctx context.Context, ns, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, ns, key, value)
}

func TestRestore_StorageErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	kv := failingStore{Store: storage.NewMemStore(), getErr: boom}

	if _, err := Restore(context.Background(), storage.Scope(kv, "sid"), catalog.NewStore(), Options{}); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}

func TestCommit_FailedWriteLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	kv := &failingStore{Store: storage.NewMemStore()}

	s, err := Restore(ctx, storage.Scope(kv, "sid"), catalog.NewStore(), Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	mustAdd(t, s, 1)

	kv.setErr = boom
	if err := s.AddItem(ctx, 1); !errors.Is(err, boom) {
		t.Fatalf("AddItem err=%v", err)
	}
	if err := s.Clear(ctx); !errors.Is(err, boom) {
		t.Fatalf("Clear err=%v", err)
	}
	if l, _ := s.Line(1); l.Quantity != 1 || s.Len() != 1 {
		t.Fatalf("in-memory cart diverged: %+v", s.Lines())
	}
}

func TestInvariants_RandomOperations(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	s, kv := newCart(t)

	for i := 0; i < 500; i++ {
		id := rng.Intn(10) + 1
		var err error
		switch rng.Intn(4) {
		case 0, 1:
			err = s.AddItem(ctx, id)
		case 2:
			err = s.SetQuantity(ctx, id, rng.Intn(8)-3)
		case 3:
			err = s.RemoveItem(ctx, id)
		}
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}

		sum := 0
		seen := map[int]bool{}
		for _, l := range s.Lines() {
			if l.Quantity < 1 {
				t.Fatalf("op %d: line %d has qty %d", i, l.ID, l.Quantity)
			}
			if seen[l.ID] {
				t.Fatalf("op %d: duplicate line %d", i, l.ID)
			}
			seen[l.ID] = true
			sum += l.Quantity
		}
		if sum != s.TotalQuantity() {
			t.Fatalf("op %d: total=%d sum=%d", i, s.TotalQuantity(), sum)
		}
	}

	again, err := Restore(ctx, storage.Scope(kv, "sid"), catalog.NewStore(), Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if again.TotalQuantity() != s.TotalQuantity() || again.Len() != s.Len() {
		t.Fatalf("restored total=%d len=%d want %d/%d", again.TotalQuantity(), again.Len(), s.TotalQuantity(), s.Len())
	}
}

func TestMetrics_CountMutations(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	s, err := Restore(ctx, storage.Scope(storage.NewMemStore(), "sid"), catalog.NewStore(), Options{Metrics: m})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	mustAdd(t, s, 1, 1, 999)
	_ = s.RemoveItem(ctx, 1)
	_ = s.RemoveItem(ctx, 1)

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues(opAdd)); got != 2 {
		t.Fatalf("add=%v", got)
	}
	if got := testutil.ToFloat64(m.Mutations.WithLabelValues(opRemove)); got != 1 {
		t.Fatalf("remove=%v", got)
	}
}
