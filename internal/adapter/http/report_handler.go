package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"emipay-backend/internal/usecase/report"
)

type ReportHandler struct{ uc *report.Usecase }

func NewReportHandler(uc *report.Usecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) GetBorrowerDetails(c echo.Context) error {
	borrowerID := c.Param("borrower_id")
	if !reHex32.MatchString(borrowerID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid borrower_id"})
	}
	rep, err := h.uc.BorrowerDetails(c.Request().Context(), borrowerID)
	if err != nil {
		return c.JSON(statusFor(err), errorJSON(err))
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) GetLenderDetails(c echo.Context) error {
	lenderID := c.Param("lender_id")
	if !reHex32.MatchString(lenderID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lender_id"})
	}
	rep, err := h.uc.LenderDetails(c.Request().Context(), lenderID)
	if err != nil {
		return c.JSON(statusFor(err), errorJSON(err))
	}
	return c.JSON(http.StatusOK, rep)
}
