// Package history resolves block references into the consensus time range
// owned by a record file.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

var (
	// ErrBlockNotFound is returned for a plausible reference without a
	// backing record, for example a gap in the record stream.
	ErrBlockNotFound = errors.New("block not found")

	// ErrBlockOutOfRange is returned for an explicit index past the highest
	// committed record.
	ErrBlockOutOfRange = errors.New("block number out of range")
)

// RecordFiles is the part of the storage layer the resolver reads.
type RecordFiles interface {
	EarliestRecordFile(ctx context.Context) (*model.RecordFile, error)
	LatestRecordFile(ctx context.Context) (*model.RecordFile, error)
	RecordFileByIndex(ctx context.Context, index int64) (*model.RecordFile, error)
	RecordFileByTimestamp(ctx context.Context, timestamp int64) (*model.RecordFile, error)
}

// Resolver maps block references onto historical ranges.
type Resolver struct {
	records RecordFiles
	logger  log.Logger
}

// NewResolver creates a resolver over the given record files.
func NewResolver(records RecordFiles, logger log.Logger) *Resolver {
	if logger == nil {
		logger = log.Root()
	}
	return &Resolver{records: records, logger: logger}
}

// Resolve returns the range owned by the referenced record. Every symbolic
// reference other than earliest resolves to the most recent record.
func (r *Resolver) Resolve(ctx context.Context, ref types.BlockReference) (*types.HistoricalRange, error) {
	switch ref.Kind {
	case types.BlockEarliest:
		return r.lookup(r.records.EarliestRecordFile(ctx))
	case types.BlockLatest, types.BlockSafe, types.BlockPending, types.BlockFinalized:
		return r.lookup(r.records.LatestRecordFile(ctx))
	case types.BlockNumber:
		return r.resolveIndex(ctx, ref.Number)
	default:
		return nil, fmt.Errorf("%w: unsupported block reference %s", ErrBlockNotFound, ref)
	}
}

func (r *Resolver) resolveIndex(ctx context.Context, number uint64) (*types.HistoricalRange, error) {
	latest, err := r.records.LatestRecordFile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	if latest.Index < 0 || number > uint64(latest.Index) {
		return nil, fmt.Errorf("%w: requested %d, latest %d", ErrBlockOutOfRange, number, latest.Index)
	}
	if number == uint64(latest.Index) {
		return latest.Range(), nil
	}

	rf, err := r.records.RecordFileByIndex(ctx, int64(number))
	if errors.Is(err, storage.ErrNotFound) {
		r.logger.Debug("Gap in record stream", "index", number, "latest", latest.Index)
		return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, number)
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return rf.Range(), nil
}

// ResolveTimestamp returns the range of the record containing a consensus
// timestamp.
func (r *Resolver) ResolveTimestamp(ctx context.Context, timestamp int64) (*types.HistoricalRange, error) {
	return r.lookup(r.records.RecordFileByTimestamp(ctx, timestamp))
}

func (r *Resolver) lookup(rf *model.RecordFile, err error) (*types.HistoricalRange, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return rf.Range(), nil
}
