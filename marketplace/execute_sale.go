package marketplace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// Receiver pairs a creator wallet with its receiving account for the payment
// currency. For the native currency ReceivingAccount may be left zero and the
// payout goes to Address directly.
type Receiver struct {
	Address          solana.PublicKey
	ReceivingAccount solana.PublicKey
}

// DiscountProof is evidence that the buyer holds a membership token from the
// house's discount collection: the token mint and the buyer's holding account
// for it.
type DiscountProof struct {
	Mint         solana.PublicKey
	TokenAccount solana.PublicKey
}

// ExecuteSaleParams settles a matching listing and offer. Buyer is the
// instruction signer. CreatorReceivers must match the asset's registry
// creators one-to-one by position.
type ExecuteSaleParams struct {
	Buyer                  solana.PublicKey
	AuctionHouse           solana.PublicKey
	AssetMint              solana.PublicKey
	SellerReceivingAccount solana.PublicKey // zero defaults to the seller wallet (native only)
	CreatorReceivers       []Receiver
	DiscountProof          *DiscountProof
}

// ExecuteSale atomically consumes the listing and the buyer's offer for an
// asset: the asset moves from treasury escrow to the buyer, and the price is
// split between the marketplace treasury, the asset's creators and the
// seller. Listing and offer must agree on price (tested policy: a stale offer
// cannot settle at a different price) and on the auction house, and neither
// may be expired. Royalty rounding dust stays with the seller.
func (e *Engine) ExecuteSale(ctx context.Context, params ExecuteSaleParams) (Breakdown, error) {
	house, err := e.readAuctionHouse(ctx, params.AuctionHouse)
	if err != nil {
		return Breakdown{}, err
	}
	listingAddr, listing, err := e.readListing(ctx, params.AssetMint)
	if err != nil {
		return Breakdown{}, err
	}
	offerAddr, offer, err := e.readOffer(ctx, params.AssetMint, params.Buyer)
	if err != nil {
		return Breakdown{}, err
	}

	if !listing.AuctionHouse.Equals(params.AuctionHouse) || !offer.AuctionHouse.Equals(params.AuctionHouse) {
		return Breakdown{}, fmt.Errorf("listing under %s, offer under %s, sale under %s: %w",
			listing.AuctionHouse, offer.AuctionHouse, params.AuctionHouse, domain.ErrCurrencyMismatch)
	}

	now, err := e.host.UnixTime(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	if domain.ExpiredAt(listing.Expiry, now) {
		return Breakdown{}, fmt.Errorf("listing expired at %d: %w", listing.Expiry, domain.ErrExpired)
	}
	if domain.ExpiredAt(offer.Expiry, now) {
		return Breakdown{}, fmt.Errorf("offer expired at %d: %w", offer.Expiry, domain.ErrExpired)
	}

	if listing.Price != offer.Price {
		return Breakdown{}, fmt.Errorf("listing price %d != offer price %d: %w", listing.Price, offer.Price, domain.ErrInvalidAmount)
	}
	price := listing.Price

	custodian, err := e.host.AssetCustodian(ctx, params.AssetMint)
	if err != nil {
		return Breakdown{}, fmt.Errorf("asset %s: %w", params.AssetMint, err)
	}
	if !custodian.Equals(house.Treasury) {
		return Breakdown{}, fmt.Errorf("asset %s custody is with %s, not treasury escrow: %w",
			params.AssetMint, custodian, domain.ErrUnauthorized)
	}

	creators, err := e.registry.Creators(ctx, params.AssetMint)
	if err != nil {
		return Breakdown{}, fmt.Errorf("asset registry creators: %w", err)
	}
	sellerFeeBps, err := e.registry.SellerFeeBasisPoints(ctx, params.AssetMint)
	if err != nil {
		return Breakdown{}, fmt.Errorf("asset registry royalty rate: %w", err)
	}

	discounted := false
	if params.DiscountProof != nil {
		if err := e.verifyDiscountProof(ctx, &house, params.Buyer, params.DiscountProof); err != nil {
			return Breakdown{}, err
		}
		discounted = true
	}

	escrow, escrowBalance, err := e.escrowBalance(ctx, &house, params.AuctionHouse, params.Buyer)
	if err != nil {
		return Breakdown{}, err
	}
	if escrowBalance < price {
		return Breakdown{}, fmt.Errorf("escrow holds %d of %d: %w", escrowBalance, price, domain.ErrInsufficientFunds)
	}

	payouts, err := e.resolvePayouts(ctx, &house, &listing, params.SellerReceivingAccount, params.CreatorReceivers, creators)
	if err != nil {
		return Breakdown{}, err
	}

	breakdown, err := ComputeBreakdown(price, &house, sellerFeeBps, creators, discounted)
	if err != nil {
		return Breakdown{}, err
	}

	var ops []Op
	pay := func(to solana.PublicKey, amount uint64) {
		if amount > 0 {
			ops = append(ops, TransferOp{Mint: house.TreasuryMint, From: escrow, To: to, Amount: amount})
		}
	}
	pay(house.Treasury, breakdown.MarketplaceFee)
	for i, payment := range breakdown.CreatorPayments {
		pay(payouts.creators[i], payment)
	}
	pay(payouts.seller, breakdown.SellerPayment)
	ops = append(ops,
		MoveCustodyOp{AssetMint: params.AssetMint, From: house.Treasury, To: params.Buyer},
		CloseAccountOp{Address: listingAddr, RentReceiver: listing.Seller},
		CloseAccountOp{Address: offerAddr, RentReceiver: params.Buyer},
	)
	if err := e.host.Commit(ctx, ops); err != nil {
		return Breakdown{}, fmt.Errorf("failed to commit sale: %w", err)
	}

	slog.Info("🤝 [Sale] Executed",
		"asset", params.AssetMint,
		"seller", listing.Seller,
		"buyer", params.Buyer,
		"price", price,
		"marketplace_fee", breakdown.MarketplaceFee,
		"royalty_pool", breakdown.RoyaltyPool,
		"discounted", discounted,
	)
	return breakdown, nil
}

// payoutAccounts are the resolved fund destinations of one sale.
type payoutAccounts struct {
	seller   solana.PublicKey
	creators []solana.PublicKey
}

// resolvePayouts validates the receiver list against the registry creators by
// position and resolves every payout destination for the house currency.
func (e *Engine) resolvePayouts(
	ctx context.Context,
	house *domain.AuctionHouse,
	listing *domain.Listing,
	sellerReceiving solana.PublicKey,
	receivers []Receiver,
	creators []domain.Creator,
) (payoutAccounts, error) {
	if len(receivers) != len(creators) {
		return payoutAccounts{}, fmt.Errorf("%d receivers supplied for %d creators: %w",
			len(receivers), len(creators), domain.ErrMissingReceivingAccount)
	}

	out := payoutAccounts{creators: make([]solana.PublicKey, len(creators))}
	for i, creator := range creators {
		if !receivers[i].Address.Equals(creator.Address) {
			return payoutAccounts{}, fmt.Errorf("receiver %d is %s, creator is %s: %w",
				i, receivers[i].Address, creator.Address, domain.ErrMissingReceivingAccount)
		}
		if house.IsNative() {
			out.creators[i] = creator.Address
			continue
		}
		account := receivers[i].ReceivingAccount
		if account.IsZero() {
			return payoutAccounts{}, fmt.Errorf("creator %s has no receiving account for currency %s: %w",
				creator.Address, house.TreasuryMint, domain.ErrMissingReceivingAccount)
		}
		ok, err := e.host.CanReceive(ctx, house.TreasuryMint, account)
		if err != nil || !ok {
			return payoutAccounts{}, fmt.Errorf("creator receiving account %s: %w", account, domain.ErrMissingReceivingAccount)
		}
		out.creators[i] = account
	}

	if house.IsNative() {
		out.seller = listing.Seller
		if !sellerReceiving.IsZero() && !sellerReceiving.Equals(listing.Seller) {
			return payoutAccounts{}, fmt.Errorf("native seller payout must go to the seller wallet: %w", domain.ErrMissingReceivingAccount)
		}
		return out, nil
	}
	if sellerReceiving.IsZero() {
		return payoutAccounts{}, fmt.Errorf("seller has no receiving account for currency %s: %w",
			house.TreasuryMint, domain.ErrMissingReceivingAccount)
	}
	ok, err := e.host.CanReceive(ctx, house.TreasuryMint, sellerReceiving)
	if err != nil || !ok {
		return payoutAccounts{}, fmt.Errorf("seller receiving account %s: %w", sellerReceiving, domain.ErrMissingReceivingAccount)
	}
	out.seller = sellerReceiving
	return out, nil
}

// verifyDiscountProof checks that the buyer holds at least one token of the
// proof mint and that the mint is a verified member of the house's discount
// collection. A supplied-but-invalid proof fails the sale rather than
// silently charging the full fee.
func (e *Engine) verifyDiscountProof(ctx context.Context, house *domain.AuctionHouse, buyer solana.PublicKey, proof *DiscountProof) error {
	mint, owner, amount, err := e.host.TokenHolding(ctx, proof.TokenAccount)
	if err != nil {
		return fmt.Errorf("discount token account %s: %w", proof.TokenAccount, domain.ErrInvalidDiscountProof)
	}
	if !mint.Equals(proof.Mint) || !owner.Equals(buyer) || amount < 1 {
		return fmt.Errorf("discount token account %s does not hold %s for %s: %w",
			proof.TokenAccount, proof.Mint, buyer, domain.ErrInvalidDiscountProof)
	}
	collection, err := e.registry.Collection(ctx, proof.Mint)
	if err != nil {
		return fmt.Errorf("asset registry collection: %w", err)
	}
	if collection == nil || !collection.Verified || !collection.Key.Equals(house.DiscountCollection) {
		return fmt.Errorf("token %s is not a verified member of collection %s: %w",
			proof.Mint, house.DiscountCollection, domain.ErrInvalidDiscountProof)
	}
	return nil
}
