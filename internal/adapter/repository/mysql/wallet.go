package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"gorm.io/gorm"

	"emipay-backend/internal/domain/identity"
)

// WalletRow holds a party's transacting identity. PrivateKey is the hex
// encoding of a secp256k1 key; it may be empty for parties that only ever
// receive funds.
type WalletRow struct {
	ID         uint64    `gorm:"primaryKey;column:id"`
	PartyID    string    `gorm:"size:32;uniqueIndex:ux_wallets_party"`
	Address    string    `gorm:"size:42"`
	PrivateKey string    `gorm:"size:66;column:private_key"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (WalletRow) TableName() string { return "wallets" }

// WalletRepository resolves party ids to signing identities from the
// wallets table. It implements identity.Provider.
type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

var _ identity.Provider = (*WalletRepository)(nil)

func (r *WalletRepository) Resolve(ctx context.Context, partyID string) (*identity.Wallet, error) {
	var row WalletRow
	res := r.db.WithContext(ctx).Where("party_id = ?", partyID).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, identity.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if row.Address == "" {
		return nil, identity.ErrNotFound
	}

	w := &identity.Wallet{Address: common.HexToAddress(row.Address)}
	if row.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(row.PrivateKey, "0x"))
		if err != nil {
			// a wallet we cannot sign with is as good as absent
			return nil, identity.ErrNotFound
		}
		w.Key = key
	}
	return w, nil
}

func (r *WalletRepository) Create(ctx context.Context, row *WalletRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}
