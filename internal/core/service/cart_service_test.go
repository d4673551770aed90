package service

import (
	"context"
	"errors"
	"testing"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

func cartFixture(t *testing.T) (*CartService, *stubStore, *stubSession, *stubSignaler) {
	t.Helper()
	store := newStubStore()
	store.mustSeed(ports.CollectionEvents, ports.Record{
		"id": "ev1", "title": "Robotics Expo", "campus": "Cainta",
		"date": "2099-03-10", "time": "09:00", "location": "Gym",
		"registered": 3, "capacity": 10,
	})
	store.mustSeed(ports.CollectionEvents, ports.Record{
		"id": "ev_full", "title": "Sold Out Night", "campus": "Cainta",
		"date": "2099-05-01", "registered": 10, "capacity": 10,
	})

	sess := &stubSession{}
	_ = sess.Login(context.Background(), domain.User{
		ID: "user001", Name: "Juan Dela Cruz", StudentID: "2023-00123", Campus: "Cainta",
	})

	signal := &stubSignaler{}
	svc := NewCartService(store, sess, newStubKV(), signal, discardLogger)
	return svc, store, sess, signal
}

func TestCartService_AddToCart(t *testing.T) {
	svc, _, _, _ := cartFixture(t)

	item, err := svc.AddToCart(context.Background(), "ev1")
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if item.Title != "Robotics Expo" || item.Registered != 3 {
		t.Fatalf("unexpected snapshot: %+v", item)
	}

	items, err := svc.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 || items[0].EventID != "ev1" {
		t.Fatalf("unexpected cart contents: %+v", items)
	}
}

func TestCartService_AddToCart_RequiresLogin(t *testing.T) {
	svc, _, sess, _ := cartFixture(t)
	_ = sess.Logout(context.Background())

	if _, err := svc.AddToCart(context.Background(), "ev1"); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestCartService_AddToCart_Guards(t *testing.T) {
	svc, store, _, _ := cartFixture(t)

	if _, err := svc.AddToCart(context.Background(), "ghost"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
	if _, err := svc.AddToCart(context.Background(), "ev_full"); !errors.Is(err, domain.ErrEventFull) {
		t.Fatalf("expected ErrEventFull, got %v", err)
	}

	if _, err := svc.AddToCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if _, err := svc.AddToCart(context.Background(), "ev1"); !errors.Is(err, domain.ErrAlreadyInCart) {
		t.Fatalf("expected ErrAlreadyInCart, got %v", err)
	}

	store.mustSeed(ports.CollectionRegistrations, ports.Record{
		"id": "reg1", "userId": "user001", "eventId": "ev_full2",
	})
	store.mustSeed(ports.CollectionEvents, ports.Record{
		"id": "ev_full2", "title": "Seminar", "campus": "Cainta",
		"date": "2099-06-01", "registered": 0, "capacity": 5,
	})
	if _, err := svc.AddToCart(context.Background(), "ev_full2"); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestCartService_RemoveFromCart(t *testing.T) {
	svc, _, _, _ := cartFixture(t)

	if _, err := svc.AddToCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := svc.RemoveFromCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}
	// removing again is a no-op
	if err := svc.RemoveFromCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("second RemoveFromCart: %v", err)
	}

	items, err := svc.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestCartService_ClearCart_RequiresConfirmation(t *testing.T) {
	svc, _, _, _ := cartFixture(t)

	if _, err := svc.AddToCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := svc.ClearCart(context.Background(), false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if err := svc.ClearCart(context.Background(), true); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}

	items, _ := svc.Items(context.Background())
	if len(items) != 0 {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestCartService_Checkout(t *testing.T) {
	svc, store, _, signal := cartFixture(t)

	if _, err := svc.AddToCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	result, err := svc.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if result.Registered != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	regs, _ := store.ReadAll(context.Background(), ports.CollectionRegistrations, map[string]any{
		"userId": "user001", "eventId": "ev1",
	})
	if len(regs) != 1 {
		t.Fatalf("expected one registration, got %d", len(regs))
	}
	if regs[0]["status"] != domain.RegistrationStatusRegistered {
		t.Fatalf("unexpected status: %v", regs[0]["status"])
	}

	ev, _ := store.Read(context.Background(), ports.CollectionEvents, "ev1")
	if ev["registered"] != 4 {
		t.Fatalf("expected counter bumped to 4, got %v", ev["registered"])
	}

	items, _ := svc.Items(context.Background())
	if len(items) != 0 {
		t.Fatalf("expected cart cleared after successful checkout")
	}
	if signal.calls == 0 {
		t.Fatalf("expected events-changed signal")
	}
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	svc, _, _, _ := cartFixture(t)

	if _, err := svc.Checkout(context.Background()); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCartService_Checkout_SkipsExistingRegistration(t *testing.T) {
	svc, store, _, _ := cartFixture(t)

	if _, err := svc.AddToCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	// registration appears between add and checkout (another device)
	store.mustSeed(ports.CollectionRegistrations, ports.Record{
		"id": "reg_prior", "userId": "user001", "eventId": "ev1",
	})

	result, err := svc.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if result.Registered != 0 || result.Skipped != 1 {
		t.Fatalf("expected skip, got %+v", result)
	}

	// nothing succeeded, so the cart survives
	items, _ := svc.Items(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected cart preserved when nothing registered")
	}

	ev, _ := store.Read(context.Background(), ports.CollectionEvents, "ev1")
	if ev["registered"] != 3 {
		t.Fatalf("counter should be untouched, got %v", ev["registered"])
	}
}

func TestCartService_Checkout_MixedOutcomes(t *testing.T) {
	svc, store, _, _ := cartFixture(t)

	store.mustSeed(ports.CollectionEvents, ports.Record{
		"id": "ev2", "title": "Job Fair", "campus": "Antipolo",
		"date": "2099-07-01", "registered": 4, "capacity": 5,
	})
	if _, err := svc.AddToCart(context.Background(), "ev1"); err != nil {
		t.Fatalf("AddToCart ev1: %v", err)
	}
	if _, err := svc.AddToCart(context.Background(), "ev2"); err != nil {
		t.Fatalf("AddToCart ev2: %v", err)
	}
	// ev2 fills up before checkout
	if _, err := store.Update(context.Background(), ports.CollectionEvents, "ev2", ports.Record{"registered": 5}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	result, err := svc.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if result.Registered != 1 || result.Failed != 1 {
		t.Fatalf("expected one success and one failure, got %+v", result)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected per-line outcomes, got %+v", result.Lines)
	}
	if result.Lines[0].Outcome != ports.LineRegistered || result.Lines[1].Outcome != ports.LineFailed {
		t.Fatalf("unexpected line outcomes: %+v", result.Lines)
	}

	// at least one success clears the whole cart, failed line included
	items, _ := svc.Items(context.Background())
	if len(items) != 0 {
		t.Fatalf("expected cart cleared, got %+v", items)
	}
}
