package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// CartHandler serves the logged-in student's registration cart.
type CartHandler struct {
	cart ports.CartService
}

func NewCartHandler(cart ports.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
}

type checkoutLineResponse struct {
	EventID string `json:"eventId"`
	Title   string `json:"title"`
	Outcome string `json:"outcome"`
}

type checkoutResponse struct {
	Registered int                    `json:"registered"`
	Skipped    int                    `json:"skipped"`
	Failed     int                    `json:"failed"`
	Lines      []checkoutLineResponse `json:"lines"`
}

// Items handles GET /v1/cart.
//
// @Summary      List cart items
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Items(c echo.Context) error {
	items, err := h.cart.Items(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return c.JSON(http.StatusOK, cartResponse{Items: items, Count: len(items)})
}

// Add handles POST /v1/cart/items.
//
// @Summary      Add an event to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToCartRequest  true  "Event reference"
// @Success      201   {object}  domain.CartItem
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.cart.AddToCart(c.Request().Context(), req.EventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Remove handles DELETE /v1/cart/items/:eventId.
//
// @Summary      Remove an event from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path  string  true  "Event id"
// @Success      200  {object}  messageResponse
// @Router       /v1/cart/items/{eventId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	if err := h.cart.RemoveFromCart(c.Request().Context(), c.Param("eventId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "removed"})
}

// Clear handles DELETE /v1/cart; requires ?confirm=true.
//
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        confirm  query  bool  true  "Must be true"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	confirm := c.QueryParam("confirm") == "true"
	if err := h.cart.ClearCart(c.Request().Context(), confirm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "cart cleared"})
}

// Checkout handles POST /v1/cart/checkout.
//
// @Summary      Register for every event in the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkoutResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	result, err := h.cart.Checkout(c.Request().Context())
	if err != nil {
		return err
	}

	resp := checkoutResponse{
		Registered: result.Registered,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		Lines:      make([]checkoutLineResponse, 0, len(result.Lines)),
	}
	for _, line := range result.Lines {
		resp.Lines = append(resp.Lines, checkoutLineResponse{
			EventID: line.EventID,
			Title:   line.Title,
			Outcome: line.Outcome,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
