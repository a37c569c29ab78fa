package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// HapiVersion is the services version that produced a record file.
type HapiVersion struct {
	Major int
	Minor int
	Patch int
}

// AtLeast reports whether v is the same as or newer than major.minor.
func (v HapiVersion) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v HapiVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// HistoricalRange is the half-open consensus time interval [Start, End) owned
// by one record file, in nanoseconds since the epoch.
type HistoricalRange struct {
	Index   uint64
	Start   int64
	End     int64
	Hash    common.Hash
	GasUsed uint64
	Version HapiVersion
}

// Contains reports whether the consensus timestamp falls inside the range.
func (r *HistoricalRange) Contains(ts int64) bool {
	return ts >= r.Start && ts < r.End
}

// Before reports whether r lies strictly before o. Ranges of distinct records
// never overlap.
func (r *HistoricalRange) Before(o *HistoricalRange) bool {
	return r.End <= o.Start
}

// Timestamp is the block timestamp in seconds, taken from the end of the
// range.
func (r *HistoricalRange) Timestamp() uint64 {
	if r.End <= 0 {
		return 0
	}
	return uint64((r.End - 1) / 1_000_000_000)
}

func (r *HistoricalRange) String() string {
	return fmt.Sprintf("#%d[%d,%d)", r.Index, r.Start, r.End)
}
