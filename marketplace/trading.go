package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// ListParams puts a unique asset up for sale. Seller is the instruction
// signer and must hold custody of the asset.
type ListParams struct {
	Seller       solana.PublicKey
	AuctionHouse solana.PublicKey
	AssetMint    solana.PublicKey
	Price        uint64
	Expiry       uint64 // unix seconds; domain.NoExpiry for none
}

// List creates or overwrites the listing for an asset. The first list moves
// asset custody into the house treasury; a re-list by the same seller updates
// price and expiry in place without touching custody.
func (e *Engine) List(ctx context.Context, params ListParams) (solana.PublicKey, error) {
	house, err := e.readAuctionHouse(ctx, params.AuctionHouse)
	if err != nil {
		return solana.PublicKey{}, err
	}
	now, err := e.host.UnixTime(ctx)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if domain.ExpiredAt(params.Expiry, now) {
		return solana.PublicKey{}, fmt.Errorf("listing expiry %d already passed: %w", params.Expiry, domain.ErrExpired)
	}

	listingAddr, existing, err := e.readListing(ctx, params.AssetMint)
	relist := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return solana.PublicKey{}, err
	}

	record := domain.Listing{
		Seller:       params.Seller,
		AssetMint:    params.AssetMint,
		AuctionHouse: params.AuctionHouse,
		Price:        params.Price,
		Expiry:       params.Expiry,
	}
	data, err := domain.EncodeListing(record)
	if err != nil {
		return solana.PublicKey{}, err
	}

	var ops []Op
	if relist {
		// Custody already sits with the treasury; only the terms change.
		if !existing.Seller.Equals(params.Seller) {
			return solana.PublicKey{}, fmt.Errorf("asset %s is listed by %s: %w", params.AssetMint, existing.Seller, domain.ErrUnauthorized)
		}
		if !existing.AuctionHouse.Equals(params.AuctionHouse) {
			return solana.PublicKey{}, fmt.Errorf("asset %s is listed under house %s: %w",
				params.AssetMint, existing.AuctionHouse, domain.ErrCurrencyMismatch)
		}
		ops = append(ops, WriteAccountOp{Address: listingAddr, Data: data})
	} else {
		custodian, err := e.host.AssetCustodian(ctx, params.AssetMint)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("asset %s: %w", params.AssetMint, err)
		}
		if !custodian.Equals(params.Seller) {
			return solana.PublicKey{}, fmt.Errorf("seller %s does not hold asset %s: %w", params.Seller, params.AssetMint, domain.ErrUnauthorized)
		}
		ops = append(ops,
			CreateAccountOp{Address: listingAddr, Data: data, Payer: params.Seller},
			MoveCustodyOp{AssetMint: params.AssetMint, From: params.Seller, To: house.Treasury},
		)
	}
	if err := e.host.Commit(ctx, ops); err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to commit listing: %w", err)
	}

	slog.Info("🏷  [Listing] Listed",
		"asset", params.AssetMint,
		"seller", params.Seller,
		"price", params.Price,
		"relist", relist,
	)
	return listingAddr, nil
}

// UnlistParams takes an asset off the market. Seller is the instruction signer.
type UnlistParams struct {
	Seller       solana.PublicKey
	AuctionHouse solana.PublicKey
	AssetMint    solana.PublicKey
}

// Unlist returns custody to the seller and destroys the listing, refunding
// its rent reservation to the seller. Expired listings can always be
// unlisted.
func (e *Engine) Unlist(ctx context.Context, params UnlistParams) error {
	house, err := e.readAuctionHouse(ctx, params.AuctionHouse)
	if err != nil {
		return err
	}
	listingAddr, listing, err := e.readListing(ctx, params.AssetMint)
	if err != nil {
		return err
	}
	if !listing.Seller.Equals(params.Seller) {
		return fmt.Errorf("asset %s is listed by %s: %w", params.AssetMint, listing.Seller, domain.ErrUnauthorized)
	}
	if !listing.AuctionHouse.Equals(params.AuctionHouse) {
		return fmt.Errorf("asset %s is listed under house %s: %w",
			params.AssetMint, listing.AuctionHouse, domain.ErrCurrencyMismatch)
	}

	ops := []Op{
		MoveCustodyOp{AssetMint: params.AssetMint, From: house.Treasury, To: params.Seller},
		CloseAccountOp{Address: listingAddr, RentReceiver: params.Seller},
	}
	if err := e.host.Commit(ctx, ops); err != nil {
		return fmt.Errorf("failed to commit unlisting: %w", err)
	}

	slog.Info("🏷  [Listing] Unlisted", "asset", params.AssetMint, "seller", params.Seller)
	return nil
}

// PlaceOfferParams records a bid by a buyer for an asset. Buyer is the
// instruction signer.
type PlaceOfferParams struct {
	Buyer        solana.PublicKey
	AuctionHouse solana.PublicKey
	AssetMint    solana.PublicKey
	Price        uint64
	Expiry       uint64 // unix seconds; domain.NoExpiry for none
}

// PlaceOffer creates or overwrites the buyer's offer for an asset. Offers are
// speculative: escrow funding is only checked at settlement time.
func (e *Engine) PlaceOffer(ctx context.Context, params PlaceOfferParams) (solana.PublicKey, error) {
	if _, err := e.readAuctionHouse(ctx, params.AuctionHouse); err != nil {
		return solana.PublicKey{}, err
	}
	now, err := e.host.UnixTime(ctx)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if domain.ExpiredAt(params.Expiry, now) {
		return solana.PublicKey{}, fmt.Errorf("offer expiry %d already passed: %w", params.Expiry, domain.ErrExpired)
	}

	offerAddr, existing, err := e.readOffer(ctx, params.AssetMint, params.Buyer)
	reoffer := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return solana.PublicKey{}, err
	}

	record := domain.Offer{
		Buyer:        params.Buyer,
		AssetMint:    params.AssetMint,
		AuctionHouse: params.AuctionHouse,
		Price:        params.Price,
		Expiry:       params.Expiry,
	}
	data, err := domain.EncodeOffer(record)
	if err != nil {
		return solana.PublicKey{}, err
	}

	var op Op
	if reoffer {
		if !existing.AuctionHouse.Equals(params.AuctionHouse) {
			// Re-offering under a different house repins the offer's currency.
			slog.Info("🪙  [Offer] Repinned to new house", "asset", params.AssetMint, "buyer", params.Buyer, "house", params.AuctionHouse)
		}
		op = WriteAccountOp{Address: offerAddr, Data: data}
	} else {
		op = CreateAccountOp{Address: offerAddr, Data: data, Payer: params.Buyer}
	}
	if err := e.host.Commit(ctx, []Op{op}); err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to commit offer: %w", err)
	}

	slog.Info("🪙  [Offer] Placed",
		"asset", params.AssetMint,
		"buyer", params.Buyer,
		"price", params.Price,
		"reoffer", reoffer,
	)
	return offerAddr, nil
}

// CancelOfferParams withdraws a bid. Buyer is the instruction signer.
type CancelOfferParams struct {
	Buyer        solana.PublicKey
	AuctionHouse solana.PublicKey
	AssetMint    solana.PublicKey
}

// CancelOffer destroys the buyer's offer, refunding its rent reservation to
// the buyer. No escrow funds move: deposited funds stay available for future
// offers. Expired offers can always be cancelled.
func (e *Engine) CancelOffer(ctx context.Context, params CancelOfferParams) error {
	offerAddr, offer, err := e.readOffer(ctx, params.AssetMint, params.Buyer)
	if err != nil {
		return err
	}
	if !offer.Buyer.Equals(params.Buyer) {
		return fmt.Errorf("offer %s belongs to %s: %w", offerAddr, offer.Buyer, domain.ErrUnauthorized)
	}

	op := CloseAccountOp{Address: offerAddr, RentReceiver: params.Buyer}
	if err := e.host.Commit(ctx, []Op{op}); err != nil {
		return fmt.Errorf("failed to commit offer cancellation: %w", err)
	}

	slog.Info("🪙  [Offer] Cancelled", "asset", params.AssetMint, "buyer", params.Buyer)
	return nil
}
