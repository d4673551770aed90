package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// AdminHandler serves the management console. Route-level RBAC keeps
// non-admin tokens out; the service re-checks the session flag itself.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type analyticsResponse struct {
	TotalStudents     int `json:"totalStudents"`
	EventsThisMonth   int `json:"eventsThisMonth"`
	TodaysAttendance  int `json:"todaysAttendance"`
	ParticipationRate int `json:"participationRate"`
}

// --- Events ---

// ListEvents handles GET /v1/admin/events.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	events, err := h.admin.ListEvents(c.Request().Context())
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// CreateEvent handles POST /v1/admin/events.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ev, err := h.admin.CreateEvent(c.Request().Context(), toEventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ev)
}

// UpdateEvent handles PUT /v1/admin/events/:id.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ev, err := h.admin.UpdateEvent(c.Request().Context(), c.Param("id"), toEventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// DeleteEvent handles DELETE /v1/admin/events/:id; requires ?confirm=true.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	confirm := c.QueryParam("confirm") == "true"
	if err := h.admin.DeleteEvent(c.Request().Context(), c.Param("id"), confirm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event deleted"})
}

// --- Users ---

// ListUsers handles GET /v1/admin/users. A q parameter switches to search.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		users []domain.User
		err   error
	)
	if term := c.QueryParam("q"); term != "" {
		users, err = h.admin.SearchUsers(ctx, term)
	} else {
		users, err = h.admin.ListUsers(ctx)
	}
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// PromoteUser handles POST /v1/admin/users/:id/promote; requires ?confirm=true.
func (h *AdminHandler) PromoteUser(c echo.Context) error {
	confirm := c.QueryParam("confirm") == "true"
	if err := h.admin.PromoteToAdmin(c.Request().Context(), c.Param("id"), confirm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user promoted"})
}

// DeleteUser handles DELETE /v1/admin/users/:id; requires ?confirm=true.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	confirm := c.QueryParam("confirm") == "true"
	if err := h.admin.DeleteUser(c.Request().Context(), c.Param("id"), confirm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}

// ExportUsers handles GET /v1/admin/users/export; streams the CSV file.
func (h *AdminHandler) ExportUsers(c echo.Context) error {
	export, err := h.admin.ExportUsersCSV(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", export.Data)
}

// --- Dashboard ---

// Analytics handles GET /v1/admin/analytics.
func (h *AdminHandler) Analytics(c echo.Context) error {
	a, err := h.admin.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyticsResponse{
		TotalStudents:     a.TotalStudents,
		EventsThisMonth:   a.EventsThisMonth,
		TodaysAttendance:  a.TodaysAttendance,
		ParticipationRate: a.ParticipationRate,
	})
}

// --- Attendance ---

// RecordAttendance handles POST /v1/admin/attendance/scan.
func (h *AdminHandler) RecordAttendance(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	att, err := h.admin.RecordAttendance(c.Request().Context(), req.Data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, att)
}

// RecentAttendance handles GET /v1/admin/attendance?limit=N.
func (h *AdminHandler) RecentAttendance(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	records, err := h.admin.RecentAttendance(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.Attendance{}
	}
	return c.JSON(http.StatusOK, records)
}

// toEventInput maps the HTTP request to the service DTO.
func toEventInput(r eventRequest) ports.EventInput {
	return ports.EventInput{
		Title:       r.Title,
		Category:    r.Category,
		Campus:      r.Campus,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Description: r.Description,
		Capacity:    r.Capacity,
		Speaker:     r.Speaker,
		Image:       r.Image,
	}
}
