package ports

import (
	"context"

	"github.com/icct-edu/campus-events/internal/core/domain"
)

// Sort orders accepted by the catalog.
const (
	SortDate       = "date"
	SortDateDesc   = "date-desc"
	SortPopularity = "popularity"
	SortName       = "name"
)

// CatalogFilters are the equality filters applied after the free-text search.
type CatalogFilters struct {
	Campus   string
	Category string
	Date     string
}

// BrowseInput is one catalog query: search term, filters, sort, page.
type BrowseInput struct {
	Term    string
	Filters CatalogFilters
	Sort    string
	Page    int
}

// BrowsePage is the current page of the filtered catalog.
type BrowsePage struct {
	Events     []domain.Event
	Page       int
	TotalPages int
	Total      int
}

// CatalogStats summarizes the upcoming catalog for the landing counters.
type CatalogStats struct {
	UpcomingEvents    int
	TotalParticipants int
}

// CatalogService loads upcoming events and serves filtered, sorted,
// paginated views of them.
type CatalogService interface {
	// Browse reloads events, applies input, and returns the requested page.
	// Any filter change resets pagination to page 1 before clamping.
	Browse(ctx context.Context, input BrowseInput) (*BrowsePage, error)
	// Refresh re-runs the last browse against fresh data. It is safe to call
	// before any Browse and is the hook invoked by the refresh coordinator.
	Refresh(ctx context.Context) error
	Stats(ctx context.Context) (*CatalogStats, error)
}
