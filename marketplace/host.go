package marketplace

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// ExecutionHost is the ledger-agnostic port for reading account state and
// committing batches of mutations. The engine talks ONLY to this interface —
// never to an RPC node or a concrete ledger directly.
//
// Reads are fresh snapshots: the engine validates every instruction against
// state read through this interface within the same call, and relies on the
// host to reject a commit whose snapshot went stale (optimistic,
// host-enforced compare-and-commit). The engine keeps no cross-call state.
type ExecutionHost interface {
	// UnixTime returns the host clock used for expiry checks.
	UnixTime(ctx context.Context) (int64, error)

	// AccountData returns the record bytes stored at address, or
	// domain.ErrNotFound if the account is absent.
	AccountData(ctx context.Context, address solana.PublicKey) ([]byte, error)

	// AccountExists reports whether any account is initialized at address.
	AccountExists(ctx context.Context, address solana.PublicKey) (bool, error)

	// Balance returns the spendable balance at address in the given currency.
	// For the native currency (domain.NativeMint) address is a wallet or PDA;
	// otherwise it is a currency-ledger (token) account.
	Balance(ctx context.Context, mint, address solana.PublicKey) (uint64, error)

	// TokenHolding resolves a currency-ledger account into its mint, owner and
	// balance. domain.ErrNotFound if the account is absent.
	TokenHolding(ctx context.Context, account solana.PublicKey) (mint, owner solana.PublicKey, amount uint64, err error)

	// CanReceive reports whether address is a valid receiving account for the
	// currency: any account for the native currency, an initialized
	// currency-ledger account of the right mint otherwise.
	CanReceive(ctx context.Context, mint, address solana.PublicKey) (bool, error)

	// AssetCustodian returns the current custodian of a unique asset, or
	// domain.ErrNotFound if the asset is unknown to the ledger.
	AssetCustodian(ctx context.Context, assetMint solana.PublicKey) (solana.PublicKey, error)

	// Commit applies a batch of operations as one atomic unit: either every
	// movement and account mutation happens, or none does.
	Commit(ctx context.Context, ops []Op) error
}

// Op is one ledger mutation inside an atomic batch.
type Op interface {
	isOp()
}

// CreateAccountOp initializes a record account at a derived address. The
// payer funds the rent reservation, which is refunded on close.
type CreateAccountOp struct {
	Address solana.PublicKey
	Data    []byte
	Payer   solana.PublicKey
}

// WriteAccountOp replaces the record bytes of an existing account.
type WriteAccountOp struct {
	Address solana.PublicKey
	Data    []byte
}

// CloseAccountOp destroys an account and returns its rent reservation
// to RentReceiver.
type CloseAccountOp struct {
	Address      solana.PublicKey
	RentReceiver solana.PublicKey
}

// CreateTokenAccountOp initializes a currency-ledger account for a non-native
// currency, held at Address on behalf of Owner.
type CreateTokenAccountOp struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Payer   solana.PublicKey
}

// TransferOp moves funds between two accounts of the same currency. Native
// transfers move between wallet/PDA addresses; token transfers move between
// currency-ledger accounts of Mint.
type TransferOp struct {
	Mint   solana.PublicKey
	From   solana.PublicKey
	To     solana.PublicKey
	Amount uint64
}

// MoveCustodyOp reassigns custody of a unique asset from its current
// custodian to another party. The host rejects the batch if From is not the
// custodian at commit time.
type MoveCustodyOp struct {
	AssetMint solana.PublicKey
	From      solana.PublicKey
	To        solana.PublicKey
}

func (CreateAccountOp) isOp()      {}
func (WriteAccountOp) isOp()       {}
func (CloseAccountOp) isOp()       {}
func (CreateTokenAccountOp) isOp() {}
func (TransferOp) isOp()           {}
func (MoveCustodyOp) isOp()        {}
