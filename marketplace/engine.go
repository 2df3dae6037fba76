package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// Engine validates marketplace instructions against a freshly-read snapshot
// of the account store and turns them into atomic operation batches for the
// ExecutionHost. It holds no state of its own between calls.
type Engine struct {
	host      ExecutionHost
	registry  AssetRegistry
	programID solana.PublicKey
}

// New creates an engine scoped to domain.DefaultProgramID.
func New(host ExecutionHost, registry AssetRegistry) *Engine {
	return NewWithProgramID(host, registry, domain.DefaultProgramID)
}

// NewWithProgramID creates an engine whose account space is derived under the
// given program ID.
func NewWithProgramID(host ExecutionHost, registry AssetRegistry, programID solana.PublicKey) *Engine {
	return &Engine{
		host:      host,
		registry:  registry,
		programID: programID,
	}
}

// ProgramID returns the program the engine derives its addresses under.
func (e *Engine) ProgramID() solana.PublicKey {
	return e.programID
}

// readAuctionHouse loads and decodes the house record at its PDA.
func (e *Engine) readAuctionHouse(ctx context.Context, address solana.PublicKey) (domain.AuctionHouse, error) {
	data, err := e.host.AccountData(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AuctionHouse{}, fmt.Errorf("auction house %s: %w", address, domain.ErrNotFound)
		}
		return domain.AuctionHouse{}, fmt.Errorf("failed to read auction house %s: %w", address, err)
	}
	return domain.DecodeAuctionHouse(data)
}

// readListing loads the listing record for an asset, if one exists.
func (e *Engine) readListing(ctx context.Context, assetMint solana.PublicKey) (solana.PublicKey, domain.Listing, error) {
	address, _, err := domain.FindListingAddress(e.programID, assetMint)
	if err != nil {
		return solana.PublicKey{}, domain.Listing{}, fmt.Errorf("failed to derive listing address: %w", err)
	}
	data, err := e.host.AccountData(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return address, domain.Listing{}, fmt.Errorf("listing for asset %s: %w", assetMint, domain.ErrNotFound)
		}
		return address, domain.Listing{}, fmt.Errorf("failed to read listing %s: %w", address, err)
	}
	listing, err := domain.DecodeListing(data)
	return address, listing, err
}

// readOffer loads the offer record for a (buyer, asset) pair, if one exists.
func (e *Engine) readOffer(ctx context.Context, assetMint, buyer solana.PublicKey) (solana.PublicKey, domain.Offer, error) {
	address, _, err := domain.FindOfferAddress(e.programID, assetMint, buyer)
	if err != nil {
		return solana.PublicKey{}, domain.Offer{}, fmt.Errorf("failed to derive offer address: %w", err)
	}
	data, err := e.host.AccountData(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return address, domain.Offer{}, fmt.Errorf("offer by %s for asset %s: %w", buyer, assetMint, domain.ErrNotFound)
		}
		return address, domain.Offer{}, fmt.Errorf("failed to read offer %s: %w", address, err)
	}
	offer, err := domain.DecodeOffer(data)
	return address, offer, err
}

// escrowBalance reads the escrow wallet balance for (owner, house) in the
// house currency. A missing wallet reads as zero.
func (e *Engine) escrowBalance(ctx context.Context, house *domain.AuctionHouse, houseAddr, owner solana.PublicKey) (solana.PublicKey, uint64, error) {
	escrow, _, err := domain.FindEscrowAddress(e.programID, houseAddr, owner)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive escrow address: %w", err)
	}
	exists, err := e.host.AccountExists(ctx, escrow)
	if err != nil {
		return escrow, 0, err
	}
	if !exists {
		return escrow, 0, nil
	}
	balance, err := e.host.Balance(ctx, house.TreasuryMint, escrow)
	if err != nil {
		return escrow, 0, fmt.Errorf("failed to read escrow balance %s: %w", escrow, err)
	}
	return escrow, balance, nil
}

// EscrowBalance returns the funds a participant has pre-committed under an
// auction house. A wallet that was never created reads as zero.
func (e *Engine) EscrowBalance(ctx context.Context, auctionHouse, owner solana.PublicKey) (uint64, error) {
	house, err := e.readAuctionHouse(ctx, auctionHouse)
	if err != nil {
		return 0, err
	}
	_, balance, err := e.escrowBalance(ctx, &house, auctionHouse, owner)
	return balance, err
}
