package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/atinyakov/dirac/internal/hasher"
	"github.com/atinyakov/dirac/internal/models"
	"github.com/atinyakov/dirac/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, store *memStore) int64 {
	t.Helper()
	u, err := store.CreateUser(context.Background(), "Ann", "a@x.com", "hashed:p1")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestCheckout_StoresHashedPin(t *testing.T) {
	store := newMemStore()
	uid := seedUser(t, store)
	svc := NewHistoryService(store, store, plainHasher{})

	err := svc.Checkout(context.Background(), CheckoutInput{
		UserID:        uid,
		Name:          "Ann",
		PhoneNumber:   "555-0100",
		Address:       "1 Main St",
		AccountNumber: "ACC-1",
		PinOrCvv:      "123",
		Cart:          json.RawMessage(`[{"sku":"A","qty":1}]`),
	})
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}

	if len(store.histories) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(store.histories))
	}
	h := store.histories[0]
	if h.PinOrCvvHash != "hashed:123" {
		t.Errorf("pin must be stored hashed, got %q", h.PinOrCvvHash)
	}
	if h.AccountNumber != "ACC-1" {
		t.Errorf("unexpected account number %q", h.AccountNumber)
	}
	var cart bytes.Buffer
	if err := json.Compact(&cart, h.Cart); err != nil {
		t.Fatalf("stored cart is not JSON: %v", err)
	}
	if cart.String() != `[{"sku":"A","qty":1}]` {
		t.Errorf("unexpected cart %s", cart.String())
	}
}

func TestCheckout_LongPin(t *testing.T) {
	store := newMemStore()
	uid := seedUser(t, store)
	h := hasher.NewBcryptHasherWithCost(bcrypt.MinCost)
	svc := NewHistoryService(store, store, h)

	pin := strings.Repeat("9", 100)
	if err := svc.Checkout(context.Background(), CheckoutInput{UserID: uid, PinOrCvv: pin, Cart: json.RawMessage(`[]`)}); err != nil {
		t.Fatalf("Checkout with 100-byte pin error: %v", err)
	}
	ok, err := h.Verify(pin, store.histories[0].PinOrCvvHash)
	if err != nil || !ok {
		t.Errorf("stored pin digest does not verify: %v, %v", ok, err)
	}
}

func TestCheckout_UnknownUser(t *testing.T) {
	store := newMemStore()
	svc := NewHistoryService(store, store, plainHasher{})

	err := svc.Checkout(context.Background(), CheckoutInput{UserID: 99, PinOrCvv: "1"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if len(store.histories) != 0 {
		t.Errorf("no history row may be created, got %d", len(store.histories))
	}
}

func TestCheckout_ForeignKeyViolationIsUserNotFound(t *testing.T) {
	users := newMemStore()
	uid := seedUser(t, users)
	// history table knows no users, so the insert trips the foreign key
	svc := NewHistoryService(users, newMemStore(), plainHasher{})

	err := svc.Checkout(context.Background(), CheckoutInput{UserID: uid, PinOrCvv: "1"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCheckout_StoreFailure(t *testing.T) {
	store := newMemStore()
	uid := seedUser(t, store)
	storeErr := &repository.StoreError{Op: "CreateHistory", Err: errors.New("down")}
	store.createErr = storeErr

	err := NewHistoryService(store, store, plainHasher{}).Checkout(context.Background(), CheckoutInput{UserID: uid, PinOrCvv: "1"})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected store error, got %v", err)
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Error("store failure must not read as unknown user")
	}
}

func TestGetHistory_NewestFirstWithoutSensitiveFields(t *testing.T) {
	store := newMemStore()
	uid := seedUser(t, store)
	svc := NewHistoryService(store, store, plainHasher{})
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		err := svc.Checkout(ctx, CheckoutInput{
			UserID:        uid,
			Name:          name,
			AccountNumber: "SECRET-ACCOUNT",
			PinOrCvv:      "SECRET-PIN",
			Cart:          json.RawMessage(`[]`),
		})
		if err != nil {
			t.Fatalf("Checkout(%s) error: %v", name, err)
		}
	}

	views, err := svc.GetHistory(ctx, uid)
	if err != nil {
		t.Fatalf("GetHistory error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(views))
	}

	for i, want := range []string{"third", "second", "first"} {
		if views[i].Name != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, views[i].Name)
		}
	}
	if !views[0].Date.After(views[1].Date) || !views[1].Date.After(views[2].Date) {
		t.Error("entries must be ordered newest first")
	}

	body, err := json.Marshal(views)
	if err != nil {
		t.Fatalf("marshal views: %v", err)
	}
	for _, secret := range []string{"SECRET-ACCOUNT", "SECRET-PIN", "hashed:"} {
		if strings.Contains(string(body), secret) {
			t.Errorf("history leaks %q: %s", secret, body)
		}
	}
}

func TestGetHistory_EmptyIsNotError(t *testing.T) {
	store := newMemStore()
	uid := seedUser(t, store)

	views, err := NewHistoryService(store, store, plainHasher{}).GetHistory(context.Background(), uid)
	if err != nil {
		t.Fatalf("GetHistory error: %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", views)
	}

	body, _ := json.Marshal(views)
	if string(body) != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestGetHistory_UnknownUser(t *testing.T) {
	_, err := NewHistoryService(newMemStore(), newMemStore(), plainHasher{}).GetHistory(context.Background(), 1)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetHistory_ProjectionKeys(t *testing.T) {
	body, err := json.Marshal(models.HistoryView{Cart: json.RawMessage(`[1]`)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"historyID", "date", "name", "phoneNumber", "address", "listCart"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if len(fields) != 6 {
		t.Errorf("expected 6 keys, got %d: %v", len(fields), fields)
	}
}
