package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"emipay-backend/internal/usecase/request"
)

type RequestHandler struct{ uc *request.Usecase }

func NewRequestHandler(uc *request.Usecase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

type createRequestReq struct {
	BorrowerID   string  `json:"borrower_id"          validate:"required,hex32"`
	Item         string  `json:"item"                 validate:"required,max=255"`
	Amount       float64 `json:"amount"               validate:"required,gt=0,dec2"`
	InterestRate float64 `json:"interest_rate"        validate:"required,gt=0,dec2"`
	Months       uint64  `json:"months"               validate:"required,gte=1,lte=360"`
	BuyerWallet  string  `json:"buyer_wallet_address" validate:"omitempty,ethaddr"`
}

func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), request.CreateInput{
		BorrowerID:   req.BorrowerID,
		Item:         req.Item,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		Months:       req.Months,
		BuyerWallet:  req.BuyerWallet,
	})
	if err != nil {
		return c.JSON(statusFor(err), errorJSON(err))
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RequestHandler) GetRequest(c echo.Context) error {
	requestID := c.Param("request_id")
	if !reHex32.MatchString(requestID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), requestID)
	if err != nil {
		return c.JSON(statusFor(err), errorJSON(err))
	}
	return c.JSON(http.StatusOK, dto)
}

// ListRequests serves the lender marketplace; ?claimed=true|false narrows
// the view, absent means everything.
func (h *RequestHandler) ListRequests(c echo.Context) error {
	var claimed *bool
	if raw := c.QueryParam("claimed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "claimed must be true or false"})
		}
		claimed = &v
	}
	dtos, err := h.uc.List(c.Request().Context(), claimed)
	if err != nil {
		return c.JSON(statusFor(err), errorJSON(err))
	}
	return c.JSON(http.StatusOK, dtos)
}
