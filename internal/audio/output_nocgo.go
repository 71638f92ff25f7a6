//go:build !((linux && cgo) || windows || darwin)

package audio

import "github.com/gopxl/beep/v2"

// DeviceAvailable reports whether this build can play through a sound card.
// The speaker needs cgo on this platform, so playback runs silently.
const DeviceAvailable = false

func newDeviceOutput(rate beep.SampleRate) output {
	return newSilentOutput(rate)
}
