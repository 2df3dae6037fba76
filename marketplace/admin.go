package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// CreateAuctionHouseParams configures a new venue. Authority is the
// instruction signer (verified by the host) and becomes both the record's
// Creator (fixed, anchors the PDA) and its initial rotatable Authority.
type CreateAuctionHouseParams struct {
	Authority                     solana.PublicKey
	TreasuryMint                  solana.PublicKey
	FeeBasisPoints                uint16
	DiscountCollection            solana.PublicKey
	DiscountBasisPoints           uint16
	TreasuryWithdrawalDestination solana.PublicKey
}

// CreateAuctionHouse creates the AuctionHouse record and its treasury
// sub-account. Exactly one house may exist per (authority, currency) pair;
// a second creation fails with domain.ErrAlreadyExists.
func (e *Engine) CreateAuctionHouse(ctx context.Context, params CreateAuctionHouseParams) (solana.PublicKey, error) {
	if params.FeeBasisPoints > domain.MaxBasisPoints {
		return solana.PublicKey{}, fmt.Errorf("fee %d basis points: %w", params.FeeBasisPoints, domain.ErrInvalidAmount)
	}
	if params.DiscountBasisPoints > params.FeeBasisPoints {
		return solana.PublicKey{}, fmt.Errorf("discount %d above fee %d basis points: %w",
			params.DiscountBasisPoints, params.FeeBasisPoints, domain.ErrInvalidAmount)
	}

	houseAddr, _, err := domain.FindAuctionHouseAddress(e.programID, params.Authority, params.TreasuryMint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive auction house address: %w", err)
	}
	exists, err := e.host.AccountExists(ctx, houseAddr)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if exists {
		return solana.PublicKey{}, fmt.Errorf("auction house %s: %w", houseAddr, domain.ErrAlreadyExists)
	}

	treasury, _, err := domain.FindTreasuryAddress(e.programID, houseAddr)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive treasury address: %w", err)
	}

	house := domain.AuctionHouse{
		Treasury:                      treasury,
		TreasuryWithdrawalDestination: params.TreasuryWithdrawalDestination,
		TreasuryMint:                  params.TreasuryMint,
		Authority:                     params.Authority,
		Creator:                       params.Authority,
		FeeBasisPoints:                params.FeeBasisPoints,
		DiscountCollection:            params.DiscountCollection,
		DiscountBasisPoints:           params.DiscountBasisPoints,
	}

	if err := e.checkReceiver(ctx, &house, params.TreasuryWithdrawalDestination); err != nil {
		return solana.PublicKey{}, fmt.Errorf("treasury withdrawal destination: %w", err)
	}

	data, err := domain.EncodeAuctionHouse(house)
	if err != nil {
		return solana.PublicKey{}, err
	}

	ops := []Op{
		CreateAccountOp{Address: houseAddr, Data: data, Payer: params.Authority},
	}
	if house.IsNative() {
		ops = append(ops, CreateAccountOp{Address: treasury, Payer: params.Authority})
	} else {
		ops = append(ops, CreateTokenAccountOp{
			Address: treasury,
			Mint:    params.TreasuryMint,
			Owner:   houseAddr,
			Payer:   params.Authority,
		})
	}
	if err := e.host.Commit(ctx, ops); err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to commit auction house creation: %w", err)
	}

	slog.Info("🏛  [AuctionHouse] Created",
		"house", houseAddr,
		"authority", params.Authority,
		"treasury_mint", params.TreasuryMint,
		"fee_bps", params.FeeBasisPoints,
	)
	return houseAddr, nil
}

// UpdateAuctionHouseParams carries the fields to change. Nil means
// "unchanged". Rotating the authority takes only the incoming key — no
// counter-signature handshake.
type UpdateAuctionHouseParams struct {
	AuctionHouse solana.PublicKey
	Authority    solana.PublicKey // current authority, instruction signer

	NewAuthority                  *solana.PublicKey
	FeeBasisPoints                *uint16
	DiscountCollection            *solana.PublicKey
	DiscountBasisPoints           *uint16
	TreasuryWithdrawalDestination *solana.PublicKey
}

// UpdateAuctionHouse mutates house configuration. Only the current authority
// may update; each field updates independently.
func (e *Engine) UpdateAuctionHouse(ctx context.Context, params UpdateAuctionHouseParams) error {
	house, err := e.readAuctionHouse(ctx, params.AuctionHouse)
	if err != nil {
		return err
	}
	if !house.Authority.Equals(params.Authority) {
		return fmt.Errorf("signer %s is not the house authority: %w", params.Authority, domain.ErrUnauthorized)
	}

	if params.FeeBasisPoints != nil {
		if *params.FeeBasisPoints > domain.MaxBasisPoints {
			return fmt.Errorf("fee %d basis points: %w", *params.FeeBasisPoints, domain.ErrInvalidAmount)
		}
		house.FeeBasisPoints = *params.FeeBasisPoints
	}
	if params.DiscountCollection != nil {
		house.DiscountCollection = *params.DiscountCollection
	}
	if params.DiscountBasisPoints != nil {
		if *params.DiscountBasisPoints > house.FeeBasisPoints {
			return fmt.Errorf("discount %d above fee %d basis points: %w",
				*params.DiscountBasisPoints, house.FeeBasisPoints, domain.ErrInvalidAmount)
		}
		house.DiscountBasisPoints = *params.DiscountBasisPoints
	}
	if params.TreasuryWithdrawalDestination != nil {
		if err := e.checkReceiver(ctx, &house, *params.TreasuryWithdrawalDestination); err != nil {
			return fmt.Errorf("treasury withdrawal destination: %w", err)
		}
		house.TreasuryWithdrawalDestination = *params.TreasuryWithdrawalDestination
	}
	if params.NewAuthority != nil {
		house.Authority = *params.NewAuthority
	}

	data, err := domain.EncodeAuctionHouse(house)
	if err != nil {
		return err
	}
	if err := e.host.Commit(ctx, []Op{WriteAccountOp{Address: params.AuctionHouse, Data: data}}); err != nil {
		return fmt.Errorf("failed to commit auction house update: %w", err)
	}

	slog.Info("🏛  [AuctionHouse] Updated", "house", params.AuctionHouse, "authority", house.Authority)
	return nil
}

// WithdrawFromTreasuryParams drains collected fees to the configured
// withdrawal destination.
type WithdrawFromTreasuryParams struct {
	AuctionHouse solana.PublicKey
	Authority    solana.PublicKey // instruction signer
	Amount       uint64
}

// WithdrawFromTreasury transfers collected marketplace fees out of the
// treasury. Authority-only; overdraw fails with domain.ErrInsufficientFunds.
func (e *Engine) WithdrawFromTreasury(ctx context.Context, params WithdrawFromTreasuryParams) error {
	if params.Amount == 0 {
		return fmt.Errorf("withdraw amount: %w", domain.ErrInvalidAmount)
	}
	house, err := e.readAuctionHouse(ctx, params.AuctionHouse)
	if err != nil {
		return err
	}
	if !house.Authority.Equals(params.Authority) {
		return fmt.Errorf("signer %s is not the house authority: %w", params.Authority, domain.ErrUnauthorized)
	}

	balance, err := e.host.Balance(ctx, house.TreasuryMint, house.Treasury)
	if err != nil {
		return fmt.Errorf("failed to read treasury balance: %w", err)
	}
	if params.Amount > balance {
		return fmt.Errorf("withdraw %d exceeds treasury balance %d: %w", params.Amount, balance, domain.ErrInsufficientFunds)
	}

	op := TransferOp{
		Mint:   house.TreasuryMint,
		From:   house.Treasury,
		To:     house.TreasuryWithdrawalDestination,
		Amount: params.Amount,
	}
	if err := e.host.Commit(ctx, []Op{op}); err != nil {
		return fmt.Errorf("failed to commit treasury withdrawal: %w", err)
	}

	slog.Info("🏛  [AuctionHouse] Treasury withdrawal",
		"house", params.AuctionHouse,
		"amount", params.Amount,
		"destination", house.TreasuryWithdrawalDestination,
	)
	return nil
}

// checkReceiver validates that address can receive the house currency.
func (e *Engine) checkReceiver(ctx context.Context, house *domain.AuctionHouse, address solana.PublicKey) error {
	ok, err := e.host.CanReceive(ctx, house.TreasuryMint, address)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("account %s: %w", address, domain.ErrMissingReceivingAccount)
		}
		return err
	}
	if !ok {
		return fmt.Errorf("account %s cannot receive currency %s: %w", address, house.TreasuryMint, domain.ErrMissingReceivingAccount)
	}
	return nil
}
