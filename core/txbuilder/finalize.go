package txbuilder

import (
	"context"
	"time"

	"vestchain/errors"
	"vestchain/metrics"
	"vestchain/protocol"
	"vestchain/protocol/bc"
	"vestchain/protocol/validation"
)

var (
	// ErrBadTxTemplate is returned by FinalizeTx for malformed or
	// incompletely signed templates.
	ErrBadTxTemplate = errors.New("bad transaction template")

	// ErrRejected means the ledger rejected the assembled tx as
	// invalid.
	ErrRejected = errors.New("transaction rejected")
)

// AssembleSignatures takes a filled-in template and returns its
// fully-signed transaction.
func AssembleSignatures(tpl *Template) (*bc.Tx, error) {
	if tpl.Transaction == nil {
		return nil, errors.WithDetail(ErrBadTxTemplate, "missing transaction")
	}
	err := materializeWitnesses(tpl)
	if err != nil {
		return nil, errors.Sub(ErrBadTxTemplate, err)
	}
	return bc.NewTx(*tpl.Transaction), nil
}

// FinalizeTx assembles a fully signed tx from the template and
// commits it to the ledger at the current time.
//
// Structural rejections are reported as ErrRejected. Authorization
// rejections keep their own roots so callers can tell why a release
// was refused.
func FinalizeTx(ctx context.Context, l *protocol.Ledger, tpl *Template) (*bc.Tx, error) {
	return FinalizeTxAt(ctx, l, bc.NowMillis(), tpl)
}

// FinalizeTxAt is FinalizeTx with an explicit commit timestamp, in
// Unix milliseconds.
func FinalizeTxAt(ctx context.Context, l *protocol.Ledger, timestampMS uint64, tpl *Template) (*bc.Tx, error) {
	defer metrics.RecordElapsed(time.Now())

	tx, err := AssembleSignatures(tpl)
	if err != nil {
		return nil, err
	}

	err = l.CommitTxAt(ctx, timestampMS, tx)
	if errors.Root(err) == validation.ErrBadTx {
		detail := errors.Detail(err)
		err = errors.Sub(ErrRejected, err)
		return nil, errors.WithDetail(err, detail)
	}
	if err != nil {
		return nil, errors.Wrap(err, "committing tx to ledger")
	}
	return tx, nil
}
