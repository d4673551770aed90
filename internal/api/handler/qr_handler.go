package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// QRHandler serves the student identity badge.
type QRHandler struct {
	qr ports.QRService
}

func NewQRHandler(qr ports.QRService) *QRHandler {
	return &QRHandler{qr: qr}
}

type qrResponse struct {
	Payload    domain.QRPayload `json:"payload"`
	Image      string           `json:"image,omitempty"` // base64 PNG
	Exportable bool             `json:"exportable"`
}

// Generate handles POST /v1/qr.
//
// @Summary      Generate an identity badge
// @Tags         qr
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateQRRequest  true  "Identity fields"
// @Success      201   {object}  qrResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/qr [post]
func (h *QRHandler) Generate(c echo.Context) error {
	var req generateQRRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.qr.Generate(c.Request().Context(), req.Name, req.StudentID, req.Campus, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toQRResponse(result))
}

// LoadSaved handles GET /v1/qr; 404 when no badge is saved.
//
// @Summary      Load the saved badge
// @Tags         qr
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  qrResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/qr [get]
func (h *QRHandler) LoadSaved(c echo.Context) error {
	result, err := h.qr.LoadSaved(c.Request().Context())
	if err != nil {
		return err
	}
	if result == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no saved badge")
	}
	return c.JSON(http.StatusOK, toQRResponse(result))
}

// Image handles GET /v1/qr/image, serving the saved badge as a raw PNG.
//
// @Summary      Download the saved badge image
// @Tags         qr
// @Produce      png
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/qr/image [get]
func (h *QRHandler) Image(c echo.Context) error {
	result, err := h.qr.LoadSaved(c.Request().Context())
	if err != nil {
		return err
	}
	if result == nil || len(result.Image) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no saved badge image")
	}
	return c.Blob(http.StatusOK, "image/png", result.Image)
}

// DeleteSaved handles DELETE /v1/qr; requires ?confirm=true.
//
// @Summary      Delete the saved badge
// @Tags         qr
// @Produce      json
// @Security     BearerAuth
// @Param        confirm  query  bool  true  "Must be true"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/qr [delete]
func (h *QRHandler) DeleteSaved(c echo.Context) error {
	confirm := c.QueryParam("confirm") == "true"
	if err := h.qr.DeleteSaved(c.Request().Context(), confirm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "badge deleted"})
}

func toQRResponse(result *ports.QRResult) qrResponse {
	resp := qrResponse{Payload: result.Payload, Exportable: result.Exportable}
	if len(result.Image) > 0 {
		resp.Image = base64.StdEncoding.EncodeToString(result.Image)
	}
	return resp
}
