package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// output pulls samples from streamers started on it. Streamers must only
// be touched between lock and unlock while the output may be reading them.
type output interface {
	start(s beep.Streamer) error
	lock()
	unlock()
	close()
}

const silentQuantum = 10 * time.Millisecond

// silentOutput consumes samples at real-time speed without a sound device,
// so positions advance and end-of-stream callbacks fire exactly as they
// would through the speaker.
type silentOutput struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	streams []beep.Streamer
	buf     [][2]float64
	stop    chan struct{}
}

func newSilentOutput(rate beep.SampleRate) *silentOutput {
	return &silentOutput{
		rate: rate,
		buf:  make([][2]float64, rate.N(silentQuantum)),
	}
}

func (o *silentOutput) start(s beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.streams = append(o.streams, s)
	if o.stop == nil {
		o.stop = make(chan struct{})
		go o.run(o.stop)
	}
	return nil
}

func (o *silentOutput) run(stop chan struct{}) {
	ticker := time.NewTicker(silentQuantum)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		o.mu.Lock()
		live := o.streams[:0]
		for _, s := range o.streams {
			if _, ok := s.Stream(o.buf); ok {
				live = append(live, s)
			}
		}
		o.streams = live
		if len(o.streams) == 0 {
			close(o.stop)
			o.stop = nil
			o.mu.Unlock()
			return
		}
		o.mu.Unlock()
	}
}

func (o *silentOutput) lock()   { o.mu.Lock() }
func (o *silentOutput) unlock() { o.mu.Unlock() }

func (o *silentOutput) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streams = nil
	if o.stop != nil {
		close(o.stop)
		o.stop = nil
	}
}
