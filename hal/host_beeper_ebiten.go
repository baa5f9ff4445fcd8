//go:build !tinygo && cgo

package hal

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const hostSampleRate = 44100

// attachAudio starts an endless player that renders the current tone as a
// square wave through Ebiten's audio package.
func (b *hostBeeper) attachAudio() error {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(hostSampleRate)
	}
	p, err := ctx.NewPlayer(&squareReader{b: b, rate: ctx.SampleRate()})
	if err != nil {
		return err
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.Play()

	b.mu.Lock()
	b.audio = true
	b.mu.Unlock()
	return nil
}

type squareReader struct {
	b     *hostBeeper
	rate  int
	phase int
}

func (r *squareReader) Read(p []byte) (int, error) {
	t := r.b.current(time.Now())
	amp := int16(0)
	period := 0
	if t.freq > 0 {
		amp = int16(int(t.volume) * 3000 / 10)
		period = r.rate / int(t.freq)
		if period < 2 {
			period = 2
		}
	}

	// 16-bit little-endian stereo.
	n := len(p) &^ 3
	for i := 0; i < n; i += 4 {
		var s int16
		if period > 0 {
			if r.phase < period/2 {
				s = amp
			} else {
				s = -amp
			}
			r.phase++
			if r.phase >= period {
				r.phase = 0
			}
		}
		p[i+0] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	return n, nil
}
