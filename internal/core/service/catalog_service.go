package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// CatalogService loads upcoming events and serves filtered, sorted,
// paginated pages over them. Browse reloads before evaluating so the page
// always reflects current data; the free-text term matches title,
// description, location, speaker and campus.
type CatalogService struct {
	store    ports.RecordStore
	pageSize int
	log      zerolog.Logger

	mu     sync.Mutex
	events []domain.Event
	loaded bool
}

func NewCatalogService(store ports.RecordStore, pageSize int, log zerolog.Logger) *CatalogService {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &CatalogService{store: store, pageSize: pageSize, log: log}
}

// Browse filters the event snapshot by term and filters, sorts it, and
// returns the requested page. Out-of-range pages are clamped.
func (s *CatalogService) Browse(ctx context.Context, input ports.BrowseInput) (*ports.BrowsePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.pageLocked(input), nil
}

// Refresh reloads events from the store so the next Browse (and any cached
// page) reflects current data. It is the hook the refresh coordinator drives.
func (s *CatalogService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Stats summarizes the current snapshot for the portal header.
func (s *CatalogService) Stats(ctx context.Context) (*ports.CatalogStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			return nil, err
		}
	}

	stats := ports.CatalogStats{UpcomingEvents: len(s.events)}
	for _, ev := range s.events {
		stats.TotalParticipants += ev.Registered
	}
	return &stats, nil
}

// loadLocked fetches all events and keeps the upcoming ones, sorted by
// date ascending. Events without a date are treated as upcoming.
func (s *CatalogService) loadLocked(ctx context.Context) error {
	recs, err := s.store.ReadAll(ctx, ports.CollectionEvents, nil)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	events := make([]domain.Event, 0, len(recs))
	for _, rec := range recs {
		var ev domain.Event
		if err := domain.FromRecord(rec, &ev); err != nil {
			s.log.Warn().Err(err).Msg("catalog: skipping malformed event record")
			continue
		}
		if ev.Date != "" && ev.Date < today {
			continue
		}
		if ev.Image == "" {
			ev.Image = domain.DefaultEventImage
		}
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })

	s.events = events
	s.loaded = true
	s.log.Debug().Int("events", len(events)).Msg("catalog snapshot loaded")
	return nil
}

func (s *CatalogService) pageLocked(input ports.BrowseInput) *ports.BrowsePage {
	filtered := make([]domain.Event, 0, len(s.events))
	term := strings.ToLower(strings.TrimSpace(input.Term))
	for _, ev := range s.events {
		if !matchesFilters(ev, input.Filters) {
			continue
		}
		if term != "" && !matchesTerm(ev, term) {
			continue
		}
		filtered = append(filtered, ev)
	}
	sortEvents(filtered, input.Sort)

	total := len(filtered)
	totalPages := (total + s.pageSize - 1) / s.pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &ports.BrowsePage{
		Events:     filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

func matchesFilters(ev domain.Event, f ports.CatalogFilters) bool {
	if f.Campus != "" && ev.Campus != f.Campus {
		return false
	}
	if f.Category != "" && ev.Category != f.Category {
		return false
	}
	if f.Date != "" && ev.Date != f.Date {
		return false
	}
	return true
}

func matchesTerm(ev domain.Event, term string) bool {
	for _, field := range fieldValues(ev) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func fieldValues(ev domain.Event) []string {
	return []string{ev.Title, ev.Description, ev.Location, ev.Speaker, ev.Campus}
}

func sortEvents(events []domain.Event, mode string) {
	switch mode {
	case ports.SortDateDesc:
		sort.Slice(events, func(i, j int) bool { return events[i].Date > events[j].Date })
	case ports.SortPopularity:
		sort.Slice(events, func(i, j int) bool { return events[i].FillRate() > events[j].FillRate() })
	case ports.SortName:
		sort.Slice(events, func(i, j int) bool {
			return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
		})
	default:
		sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	}
}
