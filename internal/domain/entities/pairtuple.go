package entities

import "github.com/ethereum/go-ethereum/common"

// PairTuple names one pool-to-pool comparison a pair scanner evaluates each
// block. PoolIndex is carried over from the original shared-memory feed
// dumper's bookkeeping; nothing in the scan path reads it.
type PairTuple struct {
	VenueAPool common.Address
	VenueBPool common.Address
	PairName   string
	PoolIndex  int
}
