package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
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

func envelope(t *testing.T, cart *model.Cart) []byte {
	t.Helper()
	result, err := json.Marshal(cart)
	require.NoError(t, err)
	return []byte(`{"code":1000,"result":` + string(result) + `}`)
}

func TestStore_Get_WithoutSessionYieldsEmptyCart(t *testing.T) {
	var called bool
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), false)

	cart, err := store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
	assert.False(t, called, "no request should be made without a session")
}

func TestStore_Add_ReplacesStateWithServerResponse(t *testing.T) {
	// Server reports quantity 3 even though the client asked for 2; the
	// server's answer is the truth.
	serverCart := &model.Cart{
		ID: 1,
		Items: []model.CartItem{{
			ID:           10,
			ProductID:    5,
			ProductName:  "Keyboard",
			ProductPrice: decimal.NewFromInt(100000),
			Quantity:     3,
			Subtotal:     decimal.NewFromInt(300000),
		}},
	}

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/add", r.URL.Path)
		var req model.AddToCartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5), req.ProductID)
		assert.Equal(t, 2, req.Quantity)
		w.Write(envelope(t, serverCart))
	}), true)

	cart, err := store.Add(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity, "server response wins over requested quantity")
	assert.Equal(t, cart, store.Current())
	assert.True(t, store.Subtotal().Equal(decimal.NewFromInt(300000)))
}

func TestStore_Add_RejectsInvalidQuantity(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}), true)

	_, err := store.Add(context.Background(), 5, 0)
	require.Error(t, err)
}

func TestStore_UpdateItem_ZeroQuantityIsRemoveIntent(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("update-to-zero must not reach the server")
	}), true)

	_, err := store.UpdateItem(context.Background(), 10, 0)
	assert.ErrorIs(t, err, model.ErrRemoveConfirmationRequired)
}

func TestStore_AddThenReduceThenRemove(t *testing.T) {
	price := decimal.NewFromInt(100000)
	full := &model.Cart{Items: []model.CartItem{{
		ID: 10, ProductID: 5, ProductPrice: price, Quantity: 2, Subtotal: decimal.NewFromInt(200000),
	}}}
	empty := &model.Cart{Items: []model.CartItem{}}

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cart/add":
			w.Write(envelope(t, full))
		case "/cart/remove/5":
			require.Equal(t, http.MethodDelete, r.Method)
			w.Write(envelope(t, empty))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}), true)

	cart, err := store.Add(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.True(t, cart.Items[0].Subtotal.Equal(decimal.NewFromInt(200000)))

	// Reducing to zero prompts for confirmation instead of updating.
	_, err = store.UpdateItem(context.Background(), 10, 0)
	require.ErrorIs(t, err, model.ErrRemoveConfirmationRequired)

	// Confirming removes the line item.
	cart, err = store.Remove(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, store.ItemCount())
}

func TestStore_UpdateItem_InFlightGuard(t *testing.T) {
	release := make(chan struct{})
	var requests int32

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		<-release
		w.Write(envelope(t, &model.Cart{}))
	}), true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := store.UpdateItem(context.Background(), 10, 2)
		assert.NoError(t, err)
	}()

	// Wait for the first mutation to be in flight.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&requests) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A second update for the same line item is rejected, not queued.
	_, err := store.UpdateItem(context.Background(), 10, 3)
	assert.ErrorIs(t, err, model.ErrMutationInFlight)

	// A different line item is unaffected by the guard.
	done := make(chan error, 1)
	go func() {
		_, err := store.UpdateItem(context.Background(), 11, 1)
		done <- err
	}()

	close(release)
	wg.Wait()
	require.NoError(t, <-done)
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/clear", r.URL.Path)
		require.Equal(t, http.MethodDelete, r.Method)
		w.Write([]byte(`{"code":1000,"result":null}`))
	}), true)

	require.NoError(t, store.Clear(context.Background()))
	require.NotNil(t, store.Current())
	assert.Empty(t, store.Current().Items)
}

func TestStore_ScheduleClear(t *testing.T) {
	var cleared int32
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cart/clear" {
			atomic.AddInt32(&cleared, 1)
		}
		w.Write([]byte(`{"code":1000,"result":null}`))
	}), true)

	store.ScheduleClear(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&cleared), "clear must be delayed")

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cleared) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStore_CancelScheduledClear(t *testing.T) {
	var cleared int32
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cart/clear" {
			atomic.AddInt32(&cleared, 1)
		}
		w.Write([]byte(`{"code":1000,"result":null}`))
	}), true)

	store.ScheduleClear(50 * time.Millisecond)
	store.CancelScheduledClear()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&cleared))
}

func TestStore_FailedFetchKeepsPreviousState(t *testing.T) {
	var fail bool
	serverCart := &model.Cart{ID: 2, Items: []model.CartItem{{ID: 1, ProductID: 9, Quantity: 1}}}

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(envelope(t, serverCart))
	}), true)

	_, err := store.Get(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = store.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(2), store.Current().ID, "failed fetch must not wipe local state")
}
