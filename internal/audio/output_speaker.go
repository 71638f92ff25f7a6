//go:build (linux && cgo) || windows || darwin

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DeviceAvailable reports whether this build can play through a sound card.
const DeviceAvailable = true

// speakerOutput plays through the system sound device. The speaker is
// initialized lazily so that merely loading songs never opens the device.
type speakerOutput struct {
	rate beep.SampleRate
	once sync.Once
	err  error
}

func newDeviceOutput(rate beep.SampleRate) output {
	return &speakerOutput{rate: rate}
}

func (o *speakerOutput) start(s beep.Streamer) error {
	o.once.Do(func() {
		o.err = speaker.Init(o.rate, o.rate.N(time.Second/10))
	})
	if o.err != nil {
		return fmt.Errorf("init speaker: %w", o.err)
	}
	speaker.Play(s)
	return nil
}

func (o *speakerOutput) lock()   { speaker.Lock() }
func (o *speakerOutput) unlock() { speaker.Unlock() }

func (o *speakerOutput) close() {
	if o.err == nil {
		speaker.Clear()
	}
}
