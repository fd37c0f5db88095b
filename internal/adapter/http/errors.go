package http

import (
	"errors"
	"net/http"

	"emipay-backend/internal/domain/identity"
	"emipay-backend/internal/domain/ledger"
	paymentDomain "emipay-backend/internal/domain/payment"
	requestDomain "emipay-backend/internal/domain/request"
	agreementUC "emipay-backend/internal/usecase/agreement"
	paymentUC "emipay-backend/internal/usecase/payment"
	reportUC "emipay-backend/internal/usecase/report"
	requestUC "emipay-backend/internal/usecase/request"
)

// statusFor maps domain and ledger errors to HTTP codes. Reverts and
// contention are the caller's fault (409); network trouble upstream is not
// (502); an indeterminate settlement must read as a server-side unknown
// (500), never as a clean failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, agreementUC.ErrInvalidInput),
		errors.Is(err, requestUC.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, identity.ErrNotFound),
		errors.Is(err, paymentUC.ErrNoActiveAgreement),
		errors.Is(err, reportUC.ErrNoAgreements),
		errors.Is(err, paymentDomain.ErrNotFound),
		errors.Is(err, requestDomain.ErrNotFound),
		errors.Is(err, ledger.ErrAgreementNotFound):
		return http.StatusNotFound

	case errors.Is(err, requestDomain.ErrAlreadyPending),
		errors.Is(err, requestDomain.ErrAlreadyClaimed),
		errors.Is(err, paymentUC.ErrAttemptInFlight),
		ledger.IsRevert(err):
		return http.StatusConflict

	case ledger.IsIndeterminate(err):
		return http.StatusInternalServerError
	}

	var netErr *ledger.NetworkError
	if errors.As(err, &netErr) {
		return http.StatusBadGateway
	}
	var notDue *paymentUC.NotDueError
	if errors.As(err, &notDue) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func errorJSON(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error()}
}
