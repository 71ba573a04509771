// Package render synthesizes a SonicWeave scale to a WAV file: one sine
// partial per degree, summed and written with go-audio/wav, in the same
// PCM-buffer-construction idiom the teacher's internal/getbpm package reads
// WAV headers with (github.com/go-audio/wav), just on the encode side.
package render

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/sonicweave-lang/sonicweave/internal/value"
)

const sampleRate = 44100
const bitDepth = 16

// RenderWAV writes dur seconds of audio to w: each interval in scale becomes
// a sine partial at refHz*ratio, all partials summed and scaled to avoid
// clipping, faded in/out over 10ms to avoid clicks.
func RenderWAV(w io.Writer, scale []value.Interval, refHz float64, dur time.Duration) error {
	if len(scale) == 0 {
		return fmt.Errorf("render: empty scale")
	}
	n := int(dur.Seconds() * sampleRate)
	if n <= 0 {
		return fmt.Errorf("render: non-positive duration")
	}
	freqs := make([]float64, len(scale))
	for i, iv := range scale {
		freqs[i] = refHz * iv.ValueOf()
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, n),
		SourceBitDepth: bitDepth,
	}
	fadeSamples := int(0.01 * sampleRate)
	amp := 1.0 / float64(len(freqs))
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		var s float64
		for _, f := range freqs {
			s += amp * math.Sin(2*math.Pi*f*t)
		}
		s *= fadeGain(i, n, fadeSamples)
		buf.Data[i] = int(s * float64(int(1)<<(bitDepth-1)-1))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("render: writing samples: %w", err)
	}
	return enc.Close()
}

func fadeGain(i, n, fade int) float64 {
	if fade <= 0 {
		return 1
	}
	if i < fade {
		return float64(i) / float64(fade)
	}
	if i >= n-fade {
		return float64(n-i) / float64(fade)
	}
	return 1
}
