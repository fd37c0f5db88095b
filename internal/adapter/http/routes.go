package http

import "github.com/labstack/echo/v4"

// Register mounts the API surface. Contract operations live under
// /api/contracts, the purchase-request marketplace under /api/buy.
func Register(e *echo.Echo, h *Handler, ah *AgreementHandler, ph *PaymentHandler, rh *ReportHandler, qh *RequestHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	contracts := e.Group("/api/contracts", mw...)
	contracts.POST("/initiateAgreement", ah.InitiateAgreement)
	contracts.POST("/payEmi", ph.PayEMI)
	contracts.GET("/estimateEmi", ah.EstimateEMI)
	contracts.GET("/getBorrowerDetails/:borrower_id", rh.GetBorrowerDetails)
	contracts.GET("/getLenderDetails/:lender_id", rh.GetLenderDetails)

	buy := e.Group("/api/buy", mw...)
	buy.POST("/request", qh.CreateRequest)
	buy.GET("/request/:request_id", qh.GetRequest)
	buy.GET("/requests", qh.ListRequests)
}
