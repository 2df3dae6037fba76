package marketplace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// DepositParams moves funds from a participant's external balance into their
// escrow wallet under an auction house. Owner is the instruction signer.
// For a non-native currency PaymentAccount is the owner's currency-ledger
// account to debit; for the native currency it is ignored and the owner's
// wallet is debited directly.
type DepositParams struct {
	Owner          solana.PublicKey
	AuctionHouse   solana.PublicKey
	PaymentAccount solana.PublicKey
	Amount         uint64
}

// Deposit pre-commits funds for future offers, creating the escrow wallet on
// first use. Funds leave escrow only through settlement; the wallet identity
// is stable across deposits.
func (e *Engine) Deposit(ctx context.Context, params DepositParams) (solana.PublicKey, error) {
	if params.Amount == 0 {
		return solana.PublicKey{}, fmt.Errorf("deposit amount: %w", domain.ErrInvalidAmount)
	}
	house, err := e.readAuctionHouse(ctx, params.AuctionHouse)
	if err != nil {
		return solana.PublicKey{}, err
	}

	escrow, _, err := domain.FindEscrowAddress(e.programID, params.AuctionHouse, params.Owner)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive escrow address: %w", err)
	}
	exists, err := e.host.AccountExists(ctx, escrow)
	if err != nil {
		return solana.PublicKey{}, err
	}

	var ops []Op
	if !exists {
		if house.IsNative() {
			ops = append(ops, CreateAccountOp{Address: escrow, Payer: params.Owner})
		} else {
			ops = append(ops, CreateTokenAccountOp{
				Address: escrow,
				Mint:    house.TreasuryMint,
				Owner:   params.AuctionHouse,
				Payer:   params.Owner,
			})
		}
	}

	source := params.Owner
	if !house.IsNative() {
		mint, owner, _, err := e.host.TokenHolding(ctx, params.PaymentAccount)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("payment account %s: %w", params.PaymentAccount, err)
		}
		if !mint.Equals(house.TreasuryMint) {
			return solana.PublicKey{}, fmt.Errorf("payment account %s holds %s, house settles in %s: %w",
				params.PaymentAccount, mint, house.TreasuryMint, domain.ErrCurrencyMismatch)
		}
		if !owner.Equals(params.Owner) {
			return solana.PublicKey{}, fmt.Errorf("payment account %s is not owned by %s: %w",
				params.PaymentAccount, params.Owner, domain.ErrUnauthorized)
		}
		source = params.PaymentAccount
	}

	ops = append(ops, TransferOp{
		Mint:   house.TreasuryMint,
		From:   source,
		To:     escrow,
		Amount: params.Amount,
	})
	if err := e.host.Commit(ctx, ops); err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to commit deposit: %w", err)
	}

	slog.Info("💰 [Escrow] Deposit",
		"house", params.AuctionHouse,
		"owner", params.Owner,
		"escrow", escrow,
		"amount", params.Amount,
	)
	return escrow, nil
}
