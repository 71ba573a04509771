// Package playback sends a SonicWeave scale out to real-time targets: an
// OSC "/freq" stream for a SuperCollider-style synth, or raw MIDI note
// on/off pairs to a hardware/software port. Adapted from the teacher's
// internal/model OSC client and internal/midiconnector MIDI device wrapper.
package playback

import (
	"fmt"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"github.com/sonicweave-lang/sonicweave/internal/value"
)

// Dialer sends one OSC "/freq" message per scale degree to a SuperCollider-
// style synth listening on host:port, the same shape as the teacher's
// oscClient.Send(osc.NewMessage(...)) calls in internal/model.
type Dialer struct {
	client *osc.Client
}

// NewDialer opens an OSC client targeting host:port. No handshake is made;
// like the teacher's model.go, the client is fire-and-forget UDP.
func NewDialer(host string, port int) *Dialer {
	return &Dialer{client: osc.NewClient(host, port)}
}

// PlayScale sends "/freq <hz>" for each interval in scale (relative to
// refHz), waiting gap between notes.
func (d *Dialer) PlayScale(scale []value.Interval, refHz float64, gap time.Duration) error {
	for _, iv := range scale {
		hz := refHz * iv.ValueOf()
		msg := osc.NewMessage("/freq")
		msg.Append(float32(hz))
		if err := d.client.Send(msg); err != nil {
			return fmt.Errorf("playback: sending /freq %g: %w", hz, err)
		}
		time.Sleep(gap)
	}
	return nil
}

// Stop sends a bare "/stop" message, mirroring the teacher's stop-all
// pattern (osc.NewMessage("/stop")) in internal/model.
func (d *Dialer) Stop() error {
	return d.client.Send(osc.NewMessage("/stop"))
}
