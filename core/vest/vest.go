// Package vest provides the high-level operations over vesting-locked
// funds: locking a fund under terms, enumerating locked funds, and
// releasing matured funds to their beneficiary.
//
// A locked fund's control program commits to hash(serialize(terms)),
// so the serialized terms double as the lookup key for the fund. The
// service keeps an LRU cache mapping control programs back to the
// terms that produced them.
package vest

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"vestchain/core/txbuilder"
	"vestchain/errors"
	"vestchain/log"
	"vestchain/protocol"
	"vestchain/protocol/bc"
	"vestchain/protocol/state"
	"vestchain/protocol/vesting"
)

const (
	// termsCacheSize bounds the program-to-terms cache.
	termsCacheSize = 1000

	// buildTTL is how long a built transaction stays valid.
	buildTTL = 5 * time.Minute
)

// ErrNoLockedFunds is returned by Release when no live output is
// locked under the given terms.
var ErrNoLockedFunds = errors.New("no locked funds under these terms")

// Service exposes vesting operations over a ledger.
// Methods are safe for concurrent use.
type Service struct {
	ledger *protocol.Ledger

	mu    sync.Mutex
	terms *lru.Cache // control program (string) -> vesting.Terms
}

// NewService returns a Service operating on l.
func NewService(l *protocol.Ledger) *Service {
	return &Service{
		ledger: l,
		terms:  lru.New(termsCacheSize),
	}
}

func (s *Service) rememberTerms(t vesting.Terms) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms.Add(string(t.Program()), t)
}

// Terms returns the remembered terms whose hash the given control
// program commits to, if the service has seen them.
func (s *Service) Terms(program []byte) (vesting.Terms, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.terms.Get(string(program))
	if !ok {
		return vesting.Terms{}, false
	}
	return v.(vesting.Terms), true
}

// Lock issues amount new units and locks them under terms. The
// resulting output is claimable only by the terms' beneficiary, and
// only in a transaction whose validity window opens at or after the
// terms' maturity time.
func (s *Service) Lock(ctx context.Context, terms vesting.Terms, amount uint64) (*bc.Tx, error) {
	tpl, err := txbuilder.Build(ctx, nil, []txbuilder.Action{
		txbuilder.Issue(amount),
		LockAction(terms, amount),
	}, time.Now().Add(buildTTL))
	if err != nil {
		return nil, errors.Wrap(err, "building lock tx")
	}
	tx, err := txbuilder.FinalizeTx(ctx, s.ledger, tpl)
	if err != nil {
		return nil, err
	}
	s.rememberTerms(terms)
	log.Write(ctx,
		"message", "locked fund",
		"amount", amount,
		"beneficiary", terms.Beneficiary,
		"maturity", terms.MaturityMS,
	)
	return tx, nil
}

// Locked returns the live outputs locked under terms.
func (s *Service) Locked(terms vesting.Terms) []*state.Output {
	return s.ledger.LockedOutputs(terms.Program())
}

// LockedTotal returns the total amount locked under terms.
func (s *Service) LockedTotal(terms vesting.Terms) uint64 {
	var total uint64
	for _, o := range s.Locked(terms) {
		total += o.Amount
	}
	return total
}

// Release claims every live output locked under terms, paying the
// total to the beneficiary's key. pubKey must be the 33-byte
// compressed public key whose hash is the terms' beneficiary, and
// signFn must be able to sign for it.
func (s *Service) Release(ctx context.Context, terms vesting.Terms, pubKey []byte, signFn txbuilder.SignFunc) (*bc.Tx, error) {
	return s.ReleaseAt(ctx, bc.NowMillis(), terms, pubKey, signFn)
}

// ReleaseAt is Release with an explicit commit timestamp, in Unix
// milliseconds.
func (s *Service) ReleaseAt(ctx context.Context, timestampMS uint64, terms vesting.Terms, pubKey []byte, signFn txbuilder.SignFunc) (*bc.Tx, error) {
	outs := s.Locked(terms)
	if len(outs) == 0 {
		return nil, errors.WithDetailf(ErrNoLockedFunds, "program %x", terms.Program())
	}

	var (
		actions []txbuilder.Action
		total   uint64
	)
	for _, out := range outs {
		actions = append(actions, ReleaseAction(out, terms, pubKey))
		total += out.Amount
	}
	actions = append(actions, txbuilder.ControlWithKey(total, terms.Beneficiary))

	tpl, err := txbuilder.Build(ctx, nil, actions, time.Now().Add(buildTTL))
	if err != nil {
		return nil, errors.Wrap(err, "building release tx")
	}
	err = txbuilder.Sign(ctx, tpl, signFn)
	if err != nil {
		return nil, errors.Wrap(err, "signing release tx")
	}
	tx, err := txbuilder.FinalizeTxAt(ctx, s.ledger, timestampMS, tpl)
	if err != nil {
		return nil, err
	}
	log.Write(ctx,
		"message", "released fund",
		"amount", total,
		"beneficiary", terms.Beneficiary,
		"timestamp", timestampMS,
	)
	return tx, nil
}

// Gift issues amount new units into an output anyone may spend.
func (s *Service) Gift(ctx context.Context, amount uint64) (*bc.Tx, error) {
	tpl, err := txbuilder.Build(ctx, nil, []txbuilder.Action{
		txbuilder.Issue(amount),
		txbuilder.ControlProgram(amount, bc.AnyoneProgram(), nil),
	}, time.Now().Add(buildTTL))
	if err != nil {
		return nil, errors.Wrap(err, "building gift tx")
	}
	return txbuilder.FinalizeTx(ctx, s.ledger, tpl)
}

// ClaimGift spends every live anyone-can-spend output, paying the
// total to the key whose hash is keyHash.
func (s *Service) ClaimGift(ctx context.Context, keyHash bc.Hash) (*bc.Tx, error) {
	outs := s.ledger.LockedOutputs(bc.AnyoneProgram())
	if len(outs) == 0 {
		return nil, errors.WithDetail(ErrNoLockedFunds, "no gift outputs")
	}
	var (
		actions []txbuilder.Action
		total   uint64
	)
	for _, out := range outs {
		actions = append(actions, spendAnyoneAction{out: out})
		total += out.Amount
	}
	actions = append(actions, txbuilder.ControlWithKey(total, keyHash))

	tpl, err := txbuilder.Build(ctx, nil, actions, time.Now().Add(buildTTL))
	if err != nil {
		return nil, errors.Wrap(err, "building gift claim tx")
	}
	return txbuilder.FinalizeTx(ctx, s.ledger, tpl)
}

// Burn issues amount new units into an output that can never be
// spent, permanently removing them from circulation.
func (s *Service) Burn(ctx context.Context, amount uint64) (*bc.Tx, error) {
	tpl, err := txbuilder.Build(ctx, nil, []txbuilder.Action{
		txbuilder.Issue(amount),
		txbuilder.ControlProgram(amount, bc.NeverProgram(), nil),
	}, time.Now().Add(buildTTL))
	if err != nil {
		return nil, errors.Wrap(err, "building burn tx")
	}
	return txbuilder.FinalizeTx(ctx, s.ledger, tpl)
}
