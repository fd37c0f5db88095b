package request

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("pending request not found")
	ErrAlreadyPending = errors.New("borrower already has an active pending request")
	ErrAlreadyClaimed = errors.New("pending request already claimed")
)

// PendingRequest is a borrower's desired purchase before any agreement
// exists. A lender claims it by creating an agreement from it.
type PendingRequest struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	RequestID     string    `gorm:"size:32;uniqueIndex:ux_requests_request_id" json:"request_id"`
	BorrowerID    string    `gorm:"size:32;index:idx_requests_borrower" json:"borrower_id"`
	LenderID      string    `gorm:"size:32" json:"lender_id,omitempty"`
	Item          string    `gorm:"size:255" json:"item"`
	Amount        float64   `gorm:"type:decimal(18,2)" json:"amount"`
	InterestRate  float64   `gorm:"type:decimal(6,2)" json:"interest_rate"`
	Months        uint64    `json:"months"`
	BuyerWallet   string    `gorm:"size:42;column:buyer_wallet" json:"buyer_wallet_address"`
	IsClaimed     bool      `gorm:"index" json:"is_claimed"`
	AgreementID   *uint64   `json:"agreement_id,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PendingRequest) TableName() string { return "pending_requests" }
