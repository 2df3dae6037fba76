package marketplace_test

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/tarunjais28/solana-smart-contracts/domain"
	"github.com/tarunjais28/solana-smart-contracts/marketplace"
)

func TestDeposit(t *testing.T) {
	f := newFixture(t)

	t.Run("zero amount is rejected", func(t *testing.T) {
		_, err := f.engine.Deposit(ctx, marketplace.DepositParams{
			Owner:        f.buyer,
			AuctionHouse: f.house,
			Amount:       0,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("first deposit creates the wallet lazily", func(t *testing.T) {
		balance, err := f.engine.EscrowBalance(ctx, f.house, f.buyer)
		require.NoError(t, err)
		require.Zero(t, balance)

		escrow, err := f.engine.Deposit(ctx, marketplace.DepositParams{
			Owner:        f.buyer,
			AuctionHouse: f.house,
			Amount:       oneSol,
		})
		require.NoError(t, err)

		balance, err = f.engine.EscrowBalance(ctx, f.house, f.buyer)
		require.NoError(t, err)
		require.Equal(t, oneSol, balance)

		// Repeated deposits reuse the same wallet identity.
		again, err := f.engine.Deposit(ctx, marketplace.DepositParams{
			Owner:        f.buyer,
			AuctionHouse: f.house,
			Amount:       oneSol,
		})
		require.NoError(t, err)
		require.Equal(t, escrow, again)

		balance, err = f.engine.EscrowBalance(ctx, f.house, f.buyer)
		require.NoError(t, err)
		require.Equal(t, 2*oneSol, balance)
	})

	t.Run("unknown house is rejected", func(t *testing.T) {
		_, err := f.engine.Deposit(ctx, marketplace.DepositParams{
			Owner:        f.buyer,
			AuctionHouse: solana.NewWallet().PublicKey(),
			Amount:       oneSol,
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListing(t *testing.T) {
	f := newFixture(t)
	asset := f.newAsset(200, nil)

	t.Run("listing moves custody into treasury escrow", func(t *testing.T) {
		_, err := f.engine.List(ctx, marketplace.ListParams{
			Seller:       f.seller,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        oneSol,
		})
		require.NoError(t, err)

		custodian, err := f.ledger.AssetCustodian(ctx, asset)
		require.NoError(t, err)
		require.Equal(t, f.treasury, custodian)
	})

	t.Run("relisting overwrites terms without duplicating", func(t *testing.T) {
		first, err := f.engine.List(ctx, marketplace.ListParams{
			Seller:       f.seller,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        2 * oneSol,
		})
		require.NoError(t, err)

		second, err := f.engine.List(ctx, marketplace.ListParams{
			Seller:       f.seller,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        3 * oneSol,
		})
		require.NoError(t, err)
		require.Equal(t, first, second)

		data, err := f.ledger.AccountData(ctx, second)
		require.NoError(t, err)
		listing, err := domain.DecodeListing(data)
		require.NoError(t, err)
		require.Equal(t, 3*oneSol, listing.Price)
		require.Equal(t, f.seller, listing.Seller)
	})

	t.Run("only the listing seller may relist", func(t *testing.T) {
		_, err := f.engine.List(ctx, marketplace.ListParams{
			Seller:       solana.NewWallet().PublicKey(),
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        oneSol,
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expiry in the past is rejected", func(t *testing.T) {
		now := time.Now().Unix()
		f.ledger.SetUnixTime(now)
		_, err := f.engine.List(ctx, marketplace.ListParams{
			Seller:       f.seller,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        oneSol,
			Expiry:       uint64(now - 60),
		})
		require.ErrorIs(t, err, domain.ErrExpired)
	})

	t.Run("unlisting returns custody and closes the listing", func(t *testing.T) {
		stranger := solana.NewWallet().PublicKey()
		err := f.engine.Unlist(ctx, marketplace.UnlistParams{
			Seller:       stranger,
			AuctionHouse: f.house,
			AssetMint:    asset,
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)

		sellerBefore := f.ledger.NativeBalance(f.seller)
		err = f.engine.Unlist(ctx, marketplace.UnlistParams{
			Seller:       f.seller,
			AuctionHouse: f.house,
			AssetMint:    asset,
		})
		require.NoError(t, err)

		custodian, err := f.ledger.AssetCustodian(ctx, asset)
		require.NoError(t, err)
		require.Equal(t, f.seller, custodian)

		// Rent reservation came back with the close.
		require.Greater(t, f.ledger.NativeBalance(f.seller), sellerBefore)

		err = f.engine.Unlist(ctx, marketplace.UnlistParams{
			Seller:       f.seller,
			AuctionHouse: f.house,
			AssetMint:    asset,
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("listing an unheld asset is rejected", func(t *testing.T) {
		other := f.newAsset(0, nil)
		_, err := f.engine.List(ctx, marketplace.ListParams{
			Seller:       f.buyer, // not the custodian
			AuctionHouse: f.house,
			AssetMint:    other,
			Price:        oneSol,
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestOffers(t *testing.T) {
	f := newFixture(t)
	asset := f.newAsset(200, nil)

	t.Run("offers are speculative", func(t *testing.T) {
		// No escrow funding required at offer time.
		_, err := f.engine.PlaceOffer(ctx, marketplace.PlaceOfferParams{
			Buyer:        f.buyer,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        100 * oneSol,
		})
		require.NoError(t, err)
	})

	t.Run("reoffering overwrites in place", func(t *testing.T) {
		first, err := f.engine.PlaceOffer(ctx, marketplace.PlaceOfferParams{
			Buyer:        f.buyer,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        oneSol,
		})
		require.NoError(t, err)

		second, err := f.engine.PlaceOffer(ctx, marketplace.PlaceOfferParams{
			Buyer:        f.buyer,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        2 * oneSol,
		})
		require.NoError(t, err)
		require.Equal(t, first, second)

		data, err := f.ledger.AccountData(ctx, second)
		require.NoError(t, err)
		offer, err := domain.DecodeOffer(data)
		require.NoError(t, err)
		require.Equal(t, 2*oneSol, offer.Price)
	})

	t.Run("independent buyers hold independent offers", func(t *testing.T) {
		other := solana.NewWallet().PublicKey()
		f.ledger.FundNative(other, oneSol)
		addr, err := f.engine.PlaceOffer(ctx, marketplace.PlaceOfferParams{
			Buyer:        other,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        oneSol,
		})
		require.NoError(t, err)

		mine, _, err := domain.FindOfferAddress(f.engine.ProgramID(), asset, f.buyer)
		require.NoError(t, err)
		require.NotEqual(t, mine, addr)
	})

	t.Run("cancel closes the offer and refunds rent", func(t *testing.T) {
		before := f.ledger.NativeBalance(f.buyer)
		err := f.engine.CancelOffer(ctx, marketplace.CancelOfferParams{
			Buyer:        f.buyer,
			AuctionHouse: f.house,
			AssetMint:    asset,
		})
		require.NoError(t, err)
		require.Greater(t, f.ledger.NativeBalance(f.buyer), before)

		err = f.engine.CancelOffer(ctx, marketplace.CancelOfferParams{
			Buyer:        f.buyer,
			AuctionHouse: f.house,
			AssetMint:    asset,
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("expired offers can still be cancelled", func(t *testing.T) {
		now := time.Now().Unix()
		f.ledger.SetUnixTime(now)
		_, err := f.engine.PlaceOffer(ctx, marketplace.PlaceOfferParams{
			Buyer:        f.buyer,
			AuctionHouse: f.house,
			AssetMint:    asset,
			Price:        oneSol,
			Expiry:       uint64(now + 30),
		})
		require.NoError(t, err)

		f.ledger.SetUnixTime(now + 60)
		err = f.engine.CancelOffer(ctx, marketplace.CancelOfferParams{
			Buyer:        f.buyer,
			AuctionHouse: f.house,
			AssetMint:    asset,
		})
		require.NoError(t, err)
	})
}
