package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"emipay-backend/internal/usecase/agreement"
	"emipay-backend/pkg/emi"
)

type AgreementHandler struct{ uc *agreement.Usecase }

func NewAgreementHandler(uc *agreement.Usecase) *AgreementHandler {
	return &AgreementHandler{uc: uc}
}

type initiateAgreementReq struct {
	LenderID      string  `json:"lender_id"      validate:"required,hex32"`
	BorrowerID    string  `json:"borrower_id"    validate:"required,hex32"`
	SellerAddress string  `json:"seller_address" validate:"required,ethaddr"`
	TotalAmount   float64 `json:"total_amount"   validate:"required,gt=0,dec2"`
	InterestRate  float64 `json:"interest_rate"  validate:"required,gt=0,dec2"`
	Months        uint64  `json:"months"         validate:"required,gte=1,lte=360"`
	RequestID     string  `json:"request_id"     validate:"omitempty,hex32"`
}

func (h *AgreementHandler) InitiateAgreement(c echo.Context) error {
	var req initiateAgreementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Initiate(c.Request().Context(), agreement.InitiateInput{
		LenderID:      req.LenderID,
		BorrowerID:    req.BorrowerID,
		SellerAddress: req.SellerAddress,
		TotalAmount:   req.TotalAmount,
		InterestRate:  req.InterestRate,
		Months:        req.Months,
		RequestID:     req.RequestID,
	})
	if err != nil {
		return c.JSON(statusFor(err), errorJSON(err))
	}
	return c.JSON(http.StatusCreated, dto)
}

type estimateEmiReq struct {
	Amount       float64 `query:"amount"        validate:"required,gt=0"`
	InterestRate float64 `query:"interest_rate" validate:"required,gt=0,dec2"`
	Months       int64   `query:"months"        validate:"required,gte=1,lte=360"`
}

// EstimateEMI is the checkout preview: no identities, no chain writes,
// just the schedule a given amount/rate/tenor would produce.
func (h *AgreementHandler) EstimateEMI(c echo.Context) error {
	var req estimateEmiReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	est, err := emi.EstimateMonthly(
		decimal.NewFromFloat(req.Amount),
		decimal.NewFromFloat(req.InterestRate),
		req.Months,
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON(err))
	}
	return c.JSON(http.StatusOK, est)
}
