package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func product(id int64, price, discount string) models.Product {
	return models.Product{
		ID:                 id,
		Title:              "product",
		Price:              decimal.RequireFromString(price),
		DiscountPercentage: decimal.RequireFromString(discount),
		Stock:              10,
		Images:             []string{"a.png", "b.png"},
	}
}

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	return NewStore(context.Background(), storage, testLogger()), storage
}

func mustAdd(t *testing.T, store *Store, p models.Product, quantity int) models.CartLine {
	t.Helper()
	line, err := store.Add(context.Background(), p, quantity)
	require.NoError(t, err)
	return line
}

// failingStorage fails every Save
type failingStorage struct {
	*MemoryStorage
}

func (f *failingStorage) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestStore_AddSumsQuantities(t *testing.T) {
	store, _ := newTestStore(t)
	p := product(1, "10", "0")

	mustAdd(t, store, p, 1)
	mustAdd(t, store, p, 1)
	mustAdd(t, store, p, 3)

	line, ok := store.Line(1)
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 1, store.LineCount())
}

func TestStore_AddDefaultsToOne(t *testing.T) {
	store, _ := newTestStore(t)

	mustAdd(t, store, product(1, "10", "0"), 0)

	line, ok := store.Line(1)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestStore_AddIgnoresStock(t *testing.T) {
	store, _ := newTestStore(t)
	p := product(1, "10", "0")
	p.Stock = 2

	mustAdd(t, store, p, 5)
	assert.Equal(t, 5, store.ItemsCount())
}

func TestStore_AddRejectsInvalidProduct(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Add(context.Background(), product(0, "10", "0"), 1)
	assert.ErrorIs(t, err, models.ErrInvalidProduct)
	assert.Zero(t, store.LineCount())
}

func TestStore_AddReturnsResultingLine(t *testing.T) {
	store, _ := newTestStore(t)
	p := product(1, "10", "0")

	first := mustAdd(t, store, p, 2)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 2, first.Quantity)

	second := mustAdd(t, store, p, 3)
	assert.Equal(t, 5, second.Quantity)
}

func TestStore_QuantityCap(t *testing.T) {
	ctx := context.Background()
	p := product(1, "10", "0")

	t.Run("single add above cap", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.Add(ctx, p, math.MaxInt)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)
		assert.Zero(t, store.LineCount())
	})

	t.Run("accumulated adds cannot overflow", func(t *testing.T) {
		store, storage := newTestStore(t)
		mustAdd(t, store, p, models.MaxQuantity)

		_, err := store.Add(ctx, p, 1)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)
		_, err = store.Add(ctx, p, models.MaxQuantity)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)

		line, ok := store.Line(1)
		require.True(t, ok)
		assert.Equal(t, models.MaxQuantity, line.Quantity)
		assert.Equal(t, models.MaxQuantity, store.ItemsCount())
		assert.True(t, store.Total().IsPositive())

		restored := NewStore(ctx, storage, testLogger())
		assert.Equal(t, models.MaxQuantity, restored.ItemsCount(), "capped cart must survive a restart")
	})

	t.Run("update above cap", func(t *testing.T) {
		store, _ := newTestStore(t)
		mustAdd(t, store, p, 2)

		err := store.UpdateQuantity(ctx, 1, models.MaxQuantity+1)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)

		line, _ := store.Line(1)
		assert.Equal(t, 2, line.Quantity)
		require.NoError(t, store.UpdateQuantity(ctx, 1, models.MaxQuantity))
	})
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)

	mustAdd(t, store, product(3, "1", "0"), 1)
	mustAdd(t, store, product(1, "1", "0"), 1)
	mustAdd(t, store, product(2, "1", "0"), 1)
	mustAdd(t, store, product(1, "1", "0"), 1)

	var ids []int64
	for _, l := range store.Lines() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		quantity int
		wantQty  int
		wantLine bool
	}{
		{"sets exact quantity", 7, 7, true},
		{"sets lower quantity", 1, 1, true},
		{"zero removes line", 0, 0, false},
		{"negative removes line", -3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			mustAdd(t, store, product(1, "10", "0"), 4)

			require.NoError(t, store.UpdateQuantity(ctx, 1, tt.quantity))

			line, ok := store.Line(1)
			assert.Equal(t, tt.wantLine, ok)
			if tt.wantLine {
				assert.Equal(t, tt.wantQty, line.Quantity)
			}
		})
	}
}

func TestStore_UpdateQuantityAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	mustAdd(t, store, product(1, "10", "0"), 2)

	require.NoError(t, store.UpdateQuantity(ctx, 42, 5))

	assert.Equal(t, 1, store.LineCount())
	assert.Equal(t, 2, store.ItemsCount())
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	mustAdd(t, store, product(1, "10", "0"), 2)
	before := store.Lines()

	assert.NotPanics(t, func() {
		require.NoError(t, store.Remove(ctx, 99))
	})
	assert.Equal(t, before, store.Lines())
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	mustAdd(t, store, product(1, "10", "0"), 2)
	mustAdd(t, store, product(2, "10", "0"), 1)

	require.NoError(t, store.Remove(ctx, 1))

	_, ok := store.Line(1)
	assert.False(t, ok)
	assert.Equal(t, 1, store.LineCount())
}

func TestStore_ItemsCountSumsQuantities(t *testing.T) {
	store, _ := newTestStore(t)
	mustAdd(t, store, product(1, "10", "0"), 2)
	mustAdd(t, store, product(2, "10", "0"), 3)

	assert.Equal(t, 5, store.ItemsCount())
	assert.Equal(t, 2, store.LineCount())
}

func TestStore_Total(t *testing.T) {
	t.Run("discounted line", func(t *testing.T) {
		store, _ := newTestStore(t)
		mustAdd(t, store, product(1, "100", "20"), 2)

		assert.Equal(t, "160.00", store.Total().StringFixed(2))
	})

	t.Run("mixed lines", func(t *testing.T) {
		store, _ := newTestStore(t)
		mustAdd(t, store, product(1, "9.99", "0"), 3)
		mustAdd(t, store, product(2, "19.99", "12.5"), 1)

		// 29.97 + 17.49125
		assert.True(t, decimal.RequireFromString("47.46125").Equal(store.Total()), "total = %s", store.Total())
	})

	t.Run("empty cart", func(t *testing.T) {
		store, _ := newTestStore(t)
		assert.True(t, store.Total().IsZero())
	})
}

func TestStore_Summary(t *testing.T) {
	store, _ := newTestStore(t)
	mustAdd(t, store, product(1, "100", "20"), 2)
	mustAdd(t, store, product(2, "5", "0"), 1)

	sum := store.Summary()
	assert.Len(t, sum.Lines, 2)
	assert.Equal(t, 3, sum.ItemsCount)
	assert.Equal(t, 2, sum.LineCount)
	assert.Equal(t, "165.00", sum.Total.StringFixed(2))
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)

	_, err := storage.Load(ctx, StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)

	mustAdd(t, store, product(1, "10", "0"), 2)
	data, err := storage.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quantity":2`)

	require.NoError(t, store.Remove(ctx, 1))
	data, err = storage.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)
	mustAdd(t, store, product(1, "100", "20"), 2)
	mustAdd(t, store, product(2, "3.5", "0"), 1)

	restored := NewStore(ctx, storage, testLogger())

	lines := restored.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, []string{"a.png", "b.png"}, lines[0].Images)
	assert.Equal(t, int64(2), lines[1].ID)
	assert.Equal(t, 3, restored.ItemsCount())
	assert.True(t, store.Total().Equal(restored.Total()))
}

func TestNewStore_RecoversFromBadStorage(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"wrong shape", `{"id":1}`},
		{"zero quantity line", `[{"id":1,"price":10,"quantity":0}]`},
		{"duplicate ids", `[{"id":1,"price":10,"quantity":1},{"id":1,"price":10,"quantity":2}]`},
		{"negative price", `[{"id":1,"price":-10,"quantity":1}]`},
		{"quantity above cap", `[{"id":1,"price":10,"quantity":10000}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemoryStorage()
			require.NoError(t, storage.Save(ctx, StorageKey, []byte(tt.data)))

			var store *Store
			assert.NotPanics(t, func() {
				store = NewStore(ctx, storage, testLogger())
			})
			assert.Zero(t, store.LineCount())
			assert.Empty(t, store.Lines())
		})
	}
}

func TestStore_PersistFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{MemoryStorage: NewMemoryStorage()}
	store := NewStore(ctx, storage, testLogger())

	_, err := store.Add(ctx, product(1, "10", "0"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, store.ItemsCount())
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var calls [][]models.CartLine
	unsubscribe := store.Subscribe(func(lines []models.CartLine) {
		calls = append(calls, lines)
	})

	mustAdd(t, store, product(1, "10", "0"), 1)
	require.NoError(t, store.UpdateQuantity(ctx, 1, 4))
	require.NoError(t, store.Remove(ctx, 77)) // no-op, no notification

	require.Len(t, calls, 2)
	assert.Equal(t, 1, calls[0][0].Quantity)
	assert.Equal(t, 4, calls[1][0].Quantity)

	unsubscribe()
	require.NoError(t, store.Remove(ctx, 1))
	assert.Len(t, calls, 2)
}

func TestStore_SubscriberCanReadStore(t *testing.T) {
	store, _ := newTestStore(t)

	var count int
	store.Subscribe(func([]models.CartLine) {
		count = store.ItemsCount()
	})

	mustAdd(t, store, product(1, "10", "0"), 3)
	assert.Equal(t, 3, count)
}

func TestStore_LinesIsACopy(t *testing.T) {
	store, _ := newTestStore(t)
	mustAdd(t, store, product(1, "10", "0"), 1)

	lines := store.Lines()
	lines[0].Quantity = 100
	lines[0].Images[0] = "changed.png"

	line, _ := store.Line(1)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, "a.png", line.Images[0])
}

func TestStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = store.Add(ctx, product(int64(n%5)+1, "1", "0"), 2)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, store.ItemsCount())
	assert.Equal(t, 5, store.LineCount())
}
