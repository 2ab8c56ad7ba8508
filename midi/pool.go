package midi

import (
	"sort"
	"sync"
)

// ChannelPool hands out device channels to note handles. Pitched voices get
// an exclusive channel; percussion shares PercussionChannel.
type ChannelPool struct {
	mu         sync.Mutex
	free       []uint8
	inUse      map[uint8]bool
	percussion int
}

// NewChannelPool creates a pool holding every channel except the
// percussion channel.
func NewChannelPool() *ChannelPool {
	p := &ChannelPool{inUse: make(map[uint8]bool)}
	for ch := uint8(0); ch < Channels; ch++ {
		if ch != PercussionChannel {
			p.free = append(p.free, ch)
		}
	}
	return p
}

// Acquire returns the lowest free channel, or ErrNoChannel when the pool is
// exhausted. It never blocks.
func (p *ChannelPool) Acquire(percussion bool) (uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if percussion {
		p.percussion++
		return PercussionChannel, nil
	}
	if len(p.free) == 0 {
		return 0, ErrNoChannel
	}
	ch := p.free[0]
	p.free = p.free[1:]
	p.inUse[ch] = true
	return ch, nil
}

// Release returns ch to the pool. Releasing a channel that is not held is a
// no-op.
func (p *ChannelPool) Release(ch uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ch == PercussionChannel {
		if p.percussion > 0 {
			p.percussion--
		}
		return
	}
	if !p.inUse[ch] {
		return
	}
	delete(p.inUse, ch)
	p.free = append(p.free, ch)
	sort.Slice(p.free, func(i, j int) bool { return p.free[i] < p.free[j] })
}

// Available returns the number of free pitched channels.
func (p *ChannelPool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// InUse returns the number of held pitched channels plus percussion users.
func (p *ChannelPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inUse) + p.percussion
}
