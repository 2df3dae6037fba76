package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
	"github.com/tarunjais28/solana-smart-contracts/marketplace"
)

// Rent-exemption schedule used for account reservations: two years of
// byte-rent over the payload plus the fixed account overhead.
const (
	lamportsPerByteYear    = 3480
	accountStorageOverhead = 128
	tokenAccountSize       = 165
)

func rentExempt(size int) uint64 {
	return uint64(accountStorageOverhead+size) * lamportsPerByteYear * 2
}

type tokenAccount struct {
	mint   solana.PublicKey
	owner  solana.PublicKey
	amount uint64
}

// ledgerState is everything a commit can touch; batches apply to a copy and
// swap in on success, so a failed batch leaves no partial effect.
type ledgerState struct {
	accounts map[solana.PublicKey][]byte
	rent     map[solana.PublicKey]uint64
	native   map[solana.PublicKey]uint64
	tokens   map[solana.PublicKey]*tokenAccount
	custody  map[solana.PublicKey]solana.PublicKey
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		accounts: make(map[solana.PublicKey][]byte),
		rent:     make(map[solana.PublicKey]uint64),
		native:   make(map[solana.PublicKey]uint64),
		tokens:   make(map[solana.PublicKey]*tokenAccount),
		custody:  make(map[solana.PublicKey]solana.PublicKey),
	}
}

func (s *ledgerState) clone() *ledgerState {
	next := newLedgerState()
	for k, v := range s.accounts {
		data := make([]byte, len(v))
		copy(data, v)
		next.accounts[k] = data
	}
	for k, v := range s.rent {
		next.rent[k] = v
	}
	for k, v := range s.native {
		next.native[k] = v
	}
	for k, v := range s.tokens {
		ta := *v
		next.tokens[k] = &ta
	}
	for k, v := range s.custody {
		next.custody[k] = v
	}
	return next
}

// Ledger implements marketplace.ExecutionHost for testing and demos: an
// in-memory account store with native balances, token accounts, asset custody
// and a settable clock. Commit is all-or-nothing.
type Ledger struct {
	mu    sync.RWMutex
	now   int64
	state *ledgerState
}

// NewLedger creates an empty ledger with the clock set to wall time.
func NewLedger() *Ledger {
	return &Ledger{
		now:   time.Now().Unix(),
		state: newLedgerState(),
	}
}

// SetUnixTime pins the ledger clock, for expiry tests.
func (l *Ledger) SetUnixTime(now int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// UnixTime implements marketplace.ExecutionHost.
func (l *Ledger) UnixTime(ctx context.Context) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.now, nil
}

// AccountData implements marketplace.ExecutionHost.
func (l *Ledger) AccountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	data, ok := l.state.accounts[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// AccountExists implements marketplace.ExecutionHost. Both record accounts
// and token accounts count as initialized.
func (l *Ledger) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.state.accounts[address]; ok {
		return true, nil
	}
	_, ok := l.state.tokens[address]
	return ok, nil
}

// Balance implements marketplace.ExecutionHost.
func (l *Ledger) Balance(ctx context.Context, mint, address solana.PublicKey) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if mint.Equals(domain.NativeMint) {
		return l.state.native[address], nil
	}
	ta, ok := l.state.tokens[address]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if !ta.mint.Equals(mint) {
		return 0, fmt.Errorf("token account %s holds mint %s, not %s", address, ta.mint, mint)
	}
	return ta.amount, nil
}

// TokenHolding implements marketplace.ExecutionHost.
func (l *Ledger) TokenHolding(ctx context.Context, account solana.PublicKey) (solana.PublicKey, solana.PublicKey, uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ta, ok := l.state.tokens[account]
	if !ok {
		return solana.PublicKey{}, solana.PublicKey{}, 0, domain.ErrNotFound
	}
	return ta.mint, ta.owner, ta.amount, nil
}

// CanReceive implements marketplace.ExecutionHost. Any address can receive
// the native currency; token currencies need an initialized account of the
// right mint.
func (l *Ledger) CanReceive(ctx context.Context, mint, address solana.PublicKey) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if mint.Equals(domain.NativeMint) {
		return true, nil
	}
	ta, ok := l.state.tokens[address]
	return ok && ta.mint.Equals(mint), nil
}

// AssetCustodian implements marketplace.ExecutionHost.
func (l *Ledger) AssetCustodian(ctx context.Context, assetMint solana.PublicKey) (solana.PublicKey, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	custodian, ok := l.state.custody[assetMint]
	if !ok {
		return solana.PublicKey{}, domain.ErrNotFound
	}
	return custodian, nil
}

// Commit implements marketplace.ExecutionHost: the batch applies to a staged
// copy of the ledger and swaps in only if every operation succeeds.
func (l *Ledger) Commit(ctx context.Context, ops []marketplace.Op) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	staged := l.state.clone()
	for i, op := range ops {
		if err := staged.apply(op); err != nil {
			slog.Info("⛓️  [MockLedger] Batch rejected", "op", i, "err", err)
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	l.state = staged
	slog.Info("⛓️  [MockLedger] Batch committed", "ops", len(ops))
	return nil
}

func (s *ledgerState) apply(op marketplace.Op) error {
	switch op := op.(type) {
	case marketplace.CreateAccountOp:
		if s.initialized(op.Address) {
			return fmt.Errorf("create %s: %w", op.Address, domain.ErrAlreadyExists)
		}
		rent := rentExempt(len(op.Data))
		if err := s.debitNative(op.Payer, rent); err != nil {
			return fmt.Errorf("rent for %s: %w", op.Address, err)
		}
		data := make([]byte, len(op.Data))
		copy(data, op.Data)
		s.accounts[op.Address] = data
		s.rent[op.Address] = rent
		return nil

	case marketplace.WriteAccountOp:
		if _, ok := s.accounts[op.Address]; !ok {
			return fmt.Errorf("write %s: %w", op.Address, domain.ErrNotFound)
		}
		data := make([]byte, len(op.Data))
		copy(data, op.Data)
		s.accounts[op.Address] = data
		return nil

	case marketplace.CloseAccountOp:
		if _, ok := s.accounts[op.Address]; !ok {
			return fmt.Errorf("close %s: %w", op.Address, domain.ErrNotFound)
		}
		s.native[op.RentReceiver] += s.rent[op.Address] + s.native[op.Address]
		delete(s.accounts, op.Address)
		delete(s.rent, op.Address)
		delete(s.native, op.Address)
		return nil

	case marketplace.CreateTokenAccountOp:
		if s.initialized(op.Address) {
			return fmt.Errorf("create token account %s: %w", op.Address, domain.ErrAlreadyExists)
		}
		rent := rentExempt(tokenAccountSize)
		if err := s.debitNative(op.Payer, rent); err != nil {
			return fmt.Errorf("rent for %s: %w", op.Address, err)
		}
		s.tokens[op.Address] = &tokenAccount{mint: op.Mint, owner: op.Owner}
		s.rent[op.Address] = rent
		return nil

	case marketplace.TransferOp:
		if op.Mint.Equals(domain.NativeMint) {
			if err := s.debitNative(op.From, op.Amount); err != nil {
				return fmt.Errorf("transfer from %s: %w", op.From, err)
			}
			s.native[op.To] += op.Amount
			return nil
		}
		from, ok := s.tokens[op.From]
		if !ok || !from.mint.Equals(op.Mint) {
			return fmt.Errorf("transfer source %s for mint %s: %w", op.From, op.Mint, domain.ErrNotFound)
		}
		to, ok := s.tokens[op.To]
		if !ok || !to.mint.Equals(op.Mint) {
			return fmt.Errorf("transfer destination %s for mint %s: %w", op.To, op.Mint, domain.ErrNotFound)
		}
		if from.amount < op.Amount {
			return fmt.Errorf("transfer %d from %s holding %d: %w", op.Amount, op.From, from.amount, domain.ErrInsufficientFunds)
		}
		from.amount -= op.Amount
		to.amount += op.Amount
		return nil

	case marketplace.MoveCustodyOp:
		custodian, ok := s.custody[op.AssetMint]
		if !ok {
			return fmt.Errorf("asset %s: %w", op.AssetMint, domain.ErrNotFound)
		}
		if !custodian.Equals(op.From) {
			return fmt.Errorf("asset %s custodian is %s, not %s: %w", op.AssetMint, custodian, op.From, domain.ErrUnauthorized)
		}
		s.custody[op.AssetMint] = op.To
		return nil

	default:
		return fmt.Errorf("unknown op %T", op)
	}
}

func (s *ledgerState) initialized(address solana.PublicKey) bool {
	if _, ok := s.accounts[address]; ok {
		return true
	}
	_, ok := s.tokens[address]
	return ok
}

func (s *ledgerState) debitNative(address solana.PublicKey, amount uint64) error {
	if s.native[address] < amount {
		return fmt.Errorf("%s holds %d of %d: %w", address, s.native[address], amount, domain.ErrInsufficientFunds)
	}
	s.native[address] -= amount
	return nil
}

// FundNative credits native currency out of thin air, like an airdrop.
func (l *Ledger) FundNative(address solana.PublicKey, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.native[address] += amount
	slog.Info("⛓️  [MockLedger] Funded native", "address", address, "amount", amount)
}

// CreateTokenAccount initializes a token account outside any batch, credited
// with amount. Test setup helper.
func (l *Ledger) CreateTokenAccount(address, mint, owner solana.PublicKey, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.tokens[address] = &tokenAccount{mint: mint, owner: owner, amount: amount}
	slog.Info("⛓️  [MockLedger] Created token account", "address", address, "mint", mint, "amount", amount)
}

// SimulateAsset registers a unique asset with its current custodian, as if it
// had been minted to that holder.
func (l *Ledger) SimulateAsset(assetMint, custodian solana.PublicKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.custody[assetMint] = custodian
	slog.Info("⛓️  [MockLedger] Simulated asset", "asset", assetMint, "custodian", custodian)
}

// NativeBalance reads a native balance directly. Test assertion helper.
func (l *Ledger) NativeBalance(address solana.PublicKey) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.native[address]
}

// TokenBalance reads a token account balance directly. Test assertion helper.
func (l *Ledger) TokenBalance(address solana.PublicKey) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if ta, ok := l.state.tokens[address]; ok {
		return ta.amount
	}
	return 0
}

// RentPaid reports the rent reservation held by an account, zero if closed.
func (l *Ledger) RentPaid(address solana.PublicKey) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.rent[address]
}
