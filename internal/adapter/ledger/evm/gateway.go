// Package evm implements the ledger gateway against an EVM chain: an ERC-20
// token contract for the money legs and the EMI-manager contract for the
// agreement state machine.
package evm

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"emipay-backend/internal/domain/identity"
	"emipay-backend/internal/domain/ledger"
)

// Gateway talks to one token and one EMI-manager contract on one chain.
// Every mutation is awaited to a mined receipt within ConfirmTimeout; a
// submission whose receipt is not observed in that window surfaces as
// IndeterminateError and is never retried here.
type Gateway struct {
	client         *ethclient.Client
	chainID        *big.Int
	confirmTimeout time.Duration

	token       *bind.BoundContract
	manager     *bind.BoundContract
	tokenAddr   common.Address
	managerAddr common.Address
}

var _ ledger.Gateway = (*Gateway)(nil)

const defaultConfirmTimeout = 90 * time.Second

func New(client *ethclient.Client, chainID *big.Int, tokenAddr, managerAddr common.Address, confirmTimeout time.Duration) (*Gateway, error) {
	tokABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	mgrABI, err := abi.JSON(strings.NewReader(emiManagerABI))
	if err != nil {
		return nil, err
	}
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	return &Gateway{
		client:         client,
		chainID:        chainID,
		confirmTimeout: confirmTimeout,
		token:          bind.NewBoundContract(tokenAddr, tokABI, client, client, client),
		manager:        bind.NewBoundContract(managerAddr, mgrABI, client, client, client),
		tokenAddr:      tokenAddr,
		managerAddr:    managerAddr,
	}, nil
}

func (g *Gateway) SpenderAddress() common.Address { return g.managerAddr }

// ---- token reads ----

func (g *Gateway) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	return g.readUint(ctx, g.token, "balanceOf", addr)
}

func (g *Gateway) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return g.readUint(ctx, g.token, "allowance", owner, spender)
}

// ---- token mutations ----

func (g *Gateway) Transfer(ctx context.Context, from *identity.Wallet, to common.Address, amount *big.Int) (ledger.TxResult, error) {
	return g.transact(ctx, g.token, "transfer", from, to, amount)
}

func (g *Gateway) Approve(ctx context.Context, owner *identity.Wallet, spender common.Address, amount *big.Int) (ledger.TxResult, error) {
	return g.transact(ctx, g.token, "approve", owner, spender, amount)
}

// ---- agreement mutations ----

func (g *Gateway) CreateAgreement(ctx context.Context, from *identity.Wallet, p ledger.CreateParams) (uint64, ledger.TxResult, error) {
	res, receipt, err := g.transactWithReceipt(ctx, g.manager, "createAgreement", from,
		p.Lender, p.Borrower, p.Token, p.TotalAmount,
		big.NewInt(p.InterestRate), new(big.Int).SetUint64(p.Months),
		big.NewInt(p.StartTime.Unix()))
	if err != nil {
		return 0, res, err
	}
	id, err := agreementIDFromReceipt(receipt)
	if err != nil {
		return 0, res, &ledger.NetworkError{Op: "createAgreement", Err: err}
	}
	return id, res, nil
}

func (g *Gateway) RecordPayment(ctx context.Context, from *identity.Wallet, agreementID uint64) (ledger.TxResult, error) {
	return g.transact(ctx, g.manager, "updatePaymentStatus", from, new(big.Int).SetUint64(agreementID))
}

// ---- agreement reads ----

func (g *Gateway) GetAgreementDetails(ctx context.Context, agreementID uint64) (*ledger.Agreement, error) {
	var out []interface{}
	err := g.manager.Call(&bind.CallOpts{Context: ctx}, &out,
		"getAgreementDetails", new(big.Int).SetUint64(agreementID))
	if err != nil {
		return nil, g.readErr("getAgreementDetails", err)
	}
	if len(out) != 11 {
		return nil, &ledger.NetworkError{Op: "getAgreementDetails", Err: errors.New("unexpected output arity")}
	}
	a := &ledger.Agreement{
		ID:             agreementID,
		Lender:         out[0].(common.Address),
		Borrower:       out[1].(common.Address),
		Token:          out[2].(common.Address),
		TotalAmount:    out[3].(*big.Int),
		EMIAmount:      out[4].(*big.Int),
		InterestRate:   out[5].(*big.Int).Int64(),
		Months:         out[6].(*big.Int).Uint64(),
		StartTime:      time.Unix(out[7].(*big.Int).Int64(), 0).UTC(),
		NextPaymentDue: time.Unix(out[8].(*big.Int).Int64(), 0).UTC(),
		PaymentsMade:   out[9].(*big.Int).Uint64(),
		IsActive:       out[10].(bool),
	}
	return a, nil
}

func (g *Gateway) GetRemainingEMIs(ctx context.Context, agreementID uint64) (uint64, error) {
	v, err := g.readAgreementUint(ctx, "getRemainingEMIs", agreementID)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (g *Gateway) GetNextDueDate(ctx context.Context, agreementID uint64) (time.Time, error) {
	v, err := g.readAgreementUint(ctx, "getNextDueDate", agreementID)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v.Int64(), 0).UTC(), nil
}

func (g *Gateway) GetCurrentEMIAmount(ctx context.Context, agreementID uint64) (*big.Int, error) {
	return g.readAgreementUint(ctx, "getCurrentEMIAmount", agreementID)
}

func (g *Gateway) GetTotalAmountPaid(ctx context.Context, agreementID uint64) (*big.Int, error) {
	return g.readAgreementUint(ctx, "getTotalAmountPaid", agreementID)
}

func (g *Gateway) GetTotalAmountRemaining(ctx context.Context, agreementID uint64) (*big.Int, error) {
	return g.readAgreementUint(ctx, "getTotalAmountRemaining", agreementID)
}

func (g *Gateway) GetLenderTotalAmountPaid(ctx context.Context, agreementID uint64) (*big.Int, error) {
	return g.readAgreementUint(ctx, "getLenderTotalAmountPaid", agreementID)
}

func (g *Gateway) GetLenderTotalAmountRemaining(ctx context.Context, agreementID uint64) (*big.Int, error) {
	return g.readAgreementUint(ctx, "getLenderTotalAmountRemaining", agreementID)
}

func (g *Gateway) GetLenderRemainingMonths(ctx context.Context, agreementID uint64) (uint64, error) {
	v, err := g.readAgreementUint(ctx, "getLenderRemainingMonths", agreementID)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// ---- plumbing ----

func (g *Gateway) readUint(ctx context.Context, bc *bind.BoundContract, method string, args ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := bc.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, g.readErr(method, err)
	}
	if len(out) != 1 {
		return nil, &ledger.NetworkError{Op: method, Err: errors.New("unexpected output arity")}
	}
	return out[0].(*big.Int), nil
}

func (g *Gateway) readAgreementUint(ctx context.Context, method string, agreementID uint64) (*big.Int, error) {
	var out []interface{}
	err := g.manager.Call(&bind.CallOpts{Context: ctx}, &out, method, new(big.Int).SetUint64(agreementID))
	if err != nil {
		return nil, g.readErr(method, err)
	}
	if len(out) != 1 {
		return nil, &ledger.NetworkError{Op: method, Err: errors.New("unexpected output arity")}
	}
	return out[0].(*big.Int), nil
}

// readErr maps call failures. A contract-side revert on an agreement getter
// means the id does not exist; anything else is transport.
func (g *Gateway) readErr(op string, err error) error {
	if reason, ok := revertReason(err); ok {
		if strings.Contains(reason, "not exist") || strings.Contains(reason, "Invalid agreement") {
			return ledger.ErrAgreementNotFound
		}
		return &ledger.RevertError{Op: op, Reason: reason}
	}
	return &ledger.NetworkError{Op: op, Err: err}
}

func (g *Gateway) transact(ctx context.Context, bc *bind.BoundContract, method string, from *identity.Wallet, args ...interface{}) (ledger.TxResult, error) {
	res, _, err := g.transactWithReceipt(ctx, bc, method, from, args...)
	return res, err
}

func (g *Gateway) transactWithReceipt(ctx context.Context, bc *bind.BoundContract, method string, from *identity.Wallet, args ...interface{}) (ledger.TxResult, *types.Receipt, error) {
	if !from.CanSign() {
		return ledger.TxResult{}, nil, &ledger.RevertError{Op: method, Reason: "identity cannot sign"}
	}
	opts, err := bind.NewKeyedTransactorWithChainID(from.Key, g.chainID)
	if err != nil {
		return ledger.TxResult{}, nil, &ledger.NetworkError{Op: method, Err: err}
	}
	opts.Context = ctx

	tx, err := bc.Transact(opts, method, args...)
	if err != nil {
		// gas estimation replays the call, so reverts surface here
		if reason, ok := revertReason(err); ok {
			return ledger.TxResult{}, nil, &ledger.RevertError{Op: method, Reason: reason}
		}
		return ledger.TxResult{}, nil, &ledger.NetworkError{Op: method, Err: err}
	}

	res := ledger.TxResult{Hash: tx.Hash().Hex()}

	waitCtx, cancel := context.WithTimeout(ctx, g.confirmTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, g.client, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return res, nil, &ledger.IndeterminateError{Op: method, Hash: res.Hash}
		}
		return res, nil, &ledger.NetworkError{Op: method, Err: err}
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return res, nil, &ledger.RevertError{Op: method, Reason: g.replayReason(ctx, tx, receipt)}
	}
	return res, receipt, nil
}

// replayReason re-executes the failed transaction as a call at its block to
// recover the revert string. Best effort: returns "" when the node cannot
// reproduce it.
func (g *Gateway) replayReason(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) string {
	from, err := types.Sender(types.LatestSignerForChainID(g.chainID), tx)
	if err != nil {
		return ""
	}
	msg := ethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}
	if _, err := g.client.CallContract(ctx, msg, receipt.BlockNumber); err != nil {
		if reason, ok := revertReason(err); ok {
			return reason
		}
	}
	return ""
}

// revertReason extracts a solidity revert string from an rpc error's data
// payload, keeping string inspection out of the orchestration layer.
func revertReason(err error) (string, bool) {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return "", false
	}
	hexData, ok := de.ErrorData().(string)
	if !ok {
		return "", true
	}
	data := common.FromHex(hexData)
	reason, uerr := abi.UnpackRevert(data)
	if uerr != nil {
		return "", true
	}
	return reason, true
}

func agreementIDFromReceipt(receipt *types.Receipt) (uint64, error) {
	if len(receipt.Logs) == 0 || len(receipt.Logs[0].Data) < 32 {
		return 0, errors.New("creation receipt has no event data")
	}
	// AgreementCreated carries the new id as the first data word
	return new(big.Int).SetBytes(receipt.Logs[0].Data[:32]).Uint64(), nil
}
