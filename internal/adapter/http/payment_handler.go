package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"emipay-backend/internal/usecase/payment"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type payEmiReq struct {
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
}

func (h *PaymentHandler) PayEMI(c echo.Context) error {
	var req payEmiReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	receipt, err := h.uc.PayEMI(c.Request().Context(), req.BorrowerID)
	if err != nil {
		var notDue *payment.NotDueError
		if errors.As(err, &notDue) {
			return c.JSON(http.StatusConflict, map[string]any{
				"error":         "payment not due",
				"next_due_date": notDue.NextDue,
			})
		}
		return c.JSON(statusFor(err), errorJSON(err))
	}
	return c.JSON(http.StatusOK, receipt)
}
