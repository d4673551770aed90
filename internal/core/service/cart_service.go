package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/api/metrics"
	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
	"github.com/icct-edu/campus-events/internal/keyval"
)

// CartService keeps the logged-in student's pending registrations in the
// key-value layer and converts them into registration records on checkout.
type CartService struct {
	store   ports.RecordStore
	session ports.Session
	kv      keyval.KV
	signal  ports.ChangeSignaler
	log     zerolog.Logger
}

func NewCartService(store ports.RecordStore, session ports.Session, kv keyval.KV, signal ports.ChangeSignaler, log zerolog.Logger) *CartService {
	return &CartService{store: store, session: session, kv: kv, signal: signal, log: log}
}

// Items returns the current user's cart lines, oldest first.
func (s *CartService) Items(ctx context.Context) ([]domain.CartItem, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadCart(ctx, cartOwner(user))
}

// AddToCart appends an event to the cart after the standard guards: the
// caller must be logged in, the event must exist, must not already be in the
// cart, and must have seats left.
func (s *CartService) AddToCart(ctx context.Context, eventID string) (*domain.CartItem, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotLoggedIn
	}

	rec, err := s.store.Read(ctx, ports.CollectionEvents, eventID)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}
	var ev domain.Event
	if err := domain.FromRecord(rec, &ev); err != nil {
		return nil, err
	}

	items, err := s.loadCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.EventID == eventID {
			return nil, domain.ErrAlreadyInCart
		}
	}
	if ev.IsFull() {
		return nil, domain.ErrEventFull
	}

	existing, err := s.store.Count(ctx, ports.CollectionRegistrations, map[string]any{
		"userId":  user.ID,
		"eventId": eventID,
	})
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	if existing > 0 {
		return nil, domain.ErrAlreadyRegistered
	}

	item := domain.CartItem{
		EventID:    ev.ID,
		Title:      ev.Title,
		Date:       ev.Date,
		Time:       ev.Time,
		Location:   ev.Location,
		Campus:     ev.Campus,
		Capacity:   ev.Capacity,
		Registered: ev.Registered,
	}
	items = append(items, item)
	if err := s.saveCart(ctx, user.ID, items); err != nil {
		return nil, err
	}

	s.log.Debug().Str("user", user.ID).Str("event", eventID).Msg("event added to cart")
	return &item, nil
}

// RemoveFromCart drops a single line; removing an absent line is a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, eventID string) error {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	owner := cartOwner(user)

	items, err := s.loadCart(ctx, owner)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.EventID != eventID {
			kept = append(kept, item)
		}
	}
	return s.saveCart(ctx, owner, kept)
}

// ClearCart empties the cart. It refuses without explicit confirmation.
func (s *CartService) ClearCart(ctx context.Context, confirm bool) error {
	if !confirm {
		return domain.ErrConfirmationRequired
	}
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return s.kv.Delete(ctx, keyval.CartKey(cartOwner(user)))
}

// Checkout processes the cart in order. Each line independently either
// creates a registration, is skipped because one already exists, or fails;
// the cart is cleared only when at least one line registered.
func (s *CartService) Checkout(ctx context.Context) (*ports.CheckoutResult, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotLoggedIn
	}

	items, err := s.loadCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	result := ports.CheckoutResult{}
	for _, item := range items {
		outcome := s.checkoutLine(ctx, user, item)
		switch outcome {
		case ports.LineRegistered:
			result.Registered++
		case ports.LineSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		metrics.CheckoutLinesTotal.WithLabelValues(outcome).Inc()
		result.Lines = append(result.Lines, ports.CheckoutLine{
			EventID: item.EventID,
			Title:   item.Title,
			Outcome: outcome,
		})
	}

	if result.Registered > 0 {
		if err := s.kv.Delete(ctx, keyval.CartKey(user.ID)); err != nil {
			s.log.Warn().Err(err).Msg("checkout: cart not cleared")
		}
		if s.signal != nil {
			s.signal.EventsChanged(ctx)
		}
	}

	s.log.Info().
		Str("user", user.ID).
		Int("registered", result.Registered).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("checkout complete")
	return &result, nil
}

func (s *CartService) checkoutLine(ctx context.Context, user *domain.User, item domain.CartItem) string {
	existing, err := s.store.Count(ctx, ports.CollectionRegistrations, map[string]any{
		"userId":  user.ID,
		"eventId": item.EventID,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("event", item.EventID).Msg("checkout: duplicate check failed")
		return ports.LineFailed
	}
	if existing > 0 {
		return ports.LineSkipped
	}

	evRec, err := s.store.Read(ctx, ports.CollectionEvents, item.EventID)
	if err != nil {
		s.log.Warn().Err(err).Str("event", item.EventID).Msg("checkout: event gone")
		return ports.LineFailed
	}
	var ev domain.Event
	if err := domain.FromRecord(evRec, &ev); err != nil {
		return ports.LineFailed
	}
	if ev.IsFull() {
		return ports.LineFailed
	}

	reg := domain.Registration{
		UserID:      user.ID,
		EventID:     item.EventID,
		StudentID:   user.StudentID,
		StudentName: user.Name,
		Campus:      user.Campus,
		Status:      domain.RegistrationStatusRegistered,
	}
	regRec, err := domain.ToRecord(reg)
	if err != nil {
		return ports.LineFailed
	}
	if _, err := s.store.Create(ctx, ports.CollectionRegistrations, regRec); err != nil {
		s.log.Warn().Err(err).Str("event", item.EventID).Msg("checkout: registration not stored")
		return ports.LineFailed
	}

	if _, err := s.store.Update(ctx, ports.CollectionEvents, item.EventID, ports.Record{
		"registered": ev.Registered + 1,
	}); err != nil {
		s.log.Warn().Err(err).Str("event", item.EventID).Msg("checkout: counter not bumped")
	}

	metrics.RegistrationsCreatedTotal.WithLabelValues(user.Campus).Inc()
	return ports.LineRegistered
}

func (s *CartService) loadCart(ctx context.Context, owner string) ([]domain.CartItem, error) {
	raw, ok, err := s.kv.Get(ctx, keyval.CartKey(owner))
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn().Err(err).Msg("cart: corrupt payload, starting empty")
		return nil, nil
	}
	return items, nil
}

func (s *CartService) saveCart(ctx context.Context, owner string, items []domain.CartItem) error {
	if len(items) == 0 {
		return s.kv.Delete(ctx, keyval.CartKey(owner))
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyval.CartKey(owner), string(raw))
}

func cartOwner(user *domain.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}
