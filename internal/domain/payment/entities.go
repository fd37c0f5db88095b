package payment

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("payment record not found")

// Record is the off-chain mirror of one agreement: fast lookup plus the
// append-only settlement-hash history. It is never authoritative for
// amounts — reporting always re-reads the chain — and is never deleted.
type Record struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	RecordID    string `gorm:"size:32;uniqueIndex:ux_payments_record_id" json:"record_id"`
	BorrowerID  string `gorm:"size:32;index:idx_payments_borrower" json:"borrower_id"`
	LenderID    string `gorm:"size:32;index:idx_payments_lender" json:"lender_id"`
	AgreementID uint64 `gorm:"uniqueIndex:ux_payments_agreement" json:"agreement_id"`
	// TxHashes is the ordered settlement history, stored comma-joined.
	TxHashes  string    `gorm:"type:text;column:tx_hashes" json:"-"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string { return "payment_records" }

// TransactionHashes returns the history oldest-first.
func (r *Record) TransactionHashes() []string {
	if r.TxHashes == "" {
		return nil
	}
	return strings.Split(r.TxHashes, ",")
}

// AppendHashes adds settlement references to the history, preserving order.
func (r *Record) AppendHashes(hashes ...string) {
	all := append(r.TransactionHashes(), hashes...)
	r.TxHashes = strings.Join(all, ",")
}
