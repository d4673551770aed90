package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// CatalogHandler serves the public event catalog.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type browsePageResponse struct {
	Events     []domain.Event `json:"events"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	Total      int            `json:"total"`
}

type catalogStatsResponse struct {
	UpcomingEvents    int `json:"upcomingEvents"`
	TotalParticipants int `json:"totalParticipants"`
}

// Browse handles GET /v1/events; one page of the filtered catalog.
//
// @Summary      Browse upcoming events
// @Tags         catalog
// @Produce      json
// @Param        q         query  string  false  "Search term"
// @Param        campus    query  string  false  "Campus filter"
// @Param        category  query  string  false  "Category filter"
// @Param        date      query  string  false  "Exact date filter (yyyy-mm-dd)"
// @Param        sort      query  string  false  "date | date-desc | popularity | name"
// @Param        page      query  int     false  "Page number, 1-based"
// @Success      200  {object}  browsePageResponse
// @Router       /v1/events [get]
func (h *CatalogHandler) Browse(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	result, err := h.catalog.Browse(c.Request().Context(), ports.BrowseInput{
		Term: c.QueryParam("q"),
		Filters: ports.CatalogFilters{
			Campus:   c.QueryParam("campus"),
			Category: c.QueryParam("category"),
			Date:     c.QueryParam("date"),
		},
		Sort: c.QueryParam("sort"),
		Page: page,
	})
	if err != nil {
		return err
	}

	events := result.Events
	if events == nil {
		events = []domain.Event{}
	}
	return c.JSON(http.StatusOK, browsePageResponse{
		Events:     events,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		Total:      result.Total,
	})
}

// Stats handles GET /v1/events/stats; the landing page counters.
//
// @Summary      Catalog statistics
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  catalogStatsResponse
// @Router       /v1/events/stats [get]
func (h *CatalogHandler) Stats(c echo.Context) error {
	stats, err := h.catalog.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalogStatsResponse{
		UpcomingEvents:    stats.UpcomingEvents,
		TotalParticipants: stats.TotalParticipants,
	})
}

// Refresh handles POST /v1/events/refresh; forces a reload from the store.
//
// @Summary      Refresh the catalog snapshot
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /v1/events/refresh [post]
func (h *CatalogHandler) Refresh(c echo.Context) error {
	if err := h.catalog.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "catalog refreshed"})
}
