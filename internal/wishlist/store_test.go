package wishlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	authenticated bool
}

func (s *stubAuth) IsAuthenticated() bool { return s.authenticated }

func newTestStore(t *testing.T, handler http.Handler, authenticated bool) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, 5*time.Second, nil, zerolog.Nop())
	return NewStore(client, &stubAuth{authenticated: authenticated}, zerolog.Nop())
}

func TestNormalizeItems(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{
			name:     "bare array",
			raw:      `[{"id":1,"productId":7},{"id":2,"productId":8}]`,
			expected: 2,
		},
		{
			name:     "wrapped in items",
			raw:      `{"id":3,"items":[{"id":1,"productId":7}]}`,
			expected: 1,
		},
		{
			name:     "wrapped in wishlistItems",
			raw:      `{"id":3,"wishlistItems":[{"id":1,"productId":7},{"id":2,"productId":8},{"id":3,"productId":9}]}`,
			expected: 3,
		},
		{
			name:     "null result",
			raw:      `null`,
			expected: 0,
		},
		{
			name:     "empty wrapper",
			raw:      `{"id":3}`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := normalizeItems(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Len(t, items, tt.expected)
		})
	}
}

func TestNormalizeItems_Malformed(t *testing.T) {
	_, err := normalizeItems(json.RawMessage(`"nonsense"`))
	assert.ErrorIs(t, err, model.ErrInvalidResponse)
}

func TestStore_Get_NormalizesEveryShape(t *testing.T) {
	shapes := []string{
		`{"code":1000,"result":[{"id":1,"productId":7,"productName":"Mouse"}]}`,
		`{"code":1000,"result":{"items":[{"id":1,"productId":7,"productName":"Mouse"}]}}`,
		`{"code":1000,"result":{"wishlistItems":[{"id":1,"productId":7,"productName":"Mouse"}]}}`,
	}

	for _, shape := range shapes {
		store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(shape))
		}), true)

		items, err := store.Get(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(7), items[0].ProductID)
		assert.True(t, store.IsInWishlist(7))
	}
}

func TestStore_Get_WithoutSession(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}), false)

	items, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_AddAndRemove_ReplaceWholesale(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/wishlist/add":
			w.Write([]byte(`{"code":1000,"result":[{"id":1,"productId":7}]}`))
		case r.URL.Path == "/wishlist/remove/7":
			require.Equal(t, http.MethodDelete, r.Method)
			w.Write([]byte(`{"code":1000,"result":[]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}), true)

	items, err := store.Add(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, store.IsInWishlist(7))

	items, err = store.Remove(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, store.IsInWishlist(7))
}

func TestStore_IsInWishlist_MatchesNestedProduct(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":1000,"result":[{"id":55,"product":{"id":7,"name":"Mouse"}}]}`))
	}), true)

	_, err := store.Get(context.Background())
	require.NoError(t, err)

	assert.True(t, store.IsInWishlist(7), "nested product id must match")
	assert.False(t, store.IsInWishlist(99))
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wishlist/clear", r.URL.Path)
		w.Write([]byte(`{"code":1000,"result":null}`))
	}), true)

	require.NoError(t, store.Clear(context.Background()))
	assert.Empty(t, store.Items())
}
