package secstr

import (
	"github.com/illarion/hushpass/internal/crypto"
	"github.com/illarion/hushpass/internal/logging"
)

// region is the backing store of one SecStr. It is sized once and never
// grows, so the range handed to mlock is the range handed to munlock.
type region struct {
	mem    []byte
	mapped bool
	locked bool
}

// newRegion allocates at least size bytes, rounded up to whole pages, and
// requests a memory lock on them. Failures degrade to heap memory or an
// unlocked region.
func newRegion(size int) *region {
	page := pageSize()
	if size <= 0 {
		size = page
	}
	size = (size + page - 1) / page * page

	r := &region{}
	mem, err := mapAnonymous(size)
	if err != nil {
		logging.Debugf("secstr: anonymous mapping unavailable, using heap: %v", err)
		r.mem = make([]byte, size)
	} else {
		r.mem = mem
		r.mapped = true
		if err := adviseDontDump(mem); err != nil {
			logging.Debugf("secstr: cannot exclude region from core dumps: %v", err)
		}
	}

	if err := lockMemory(r.mem); err != nil {
		logging.Debugf("secstr: memory lock refused: %v", err)
	} else {
		r.locked = true
	}
	return r
}

func (r *region) wipe() {
	crypto.ClearBytes(r.mem)
}

// release zeroes the region, then unlocks and unmaps it. It runs once per
// region, from Destroy or from the cleanup backstop.
func (r *region) release() {
	r.wipe()
	if r.locked {
		if err := unlockMemory(r.mem); err != nil {
			logging.Debugf("secstr: munlock failed: %v", err)
		}
		r.locked = false
	}
	if r.mapped {
		if err := unmap(r.mem); err != nil {
			logging.Debugf("secstr: munmap failed: %v", err)
		}
		r.mapped = false
	}
	r.mem = nil
}
