package playback

import (
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/sonicweave-lang/sonicweave/internal/value"
)

// MIDIOut wraps a single opened MIDI output port, adapted from the
// teacher's internal/midiconnector.Device (same open/close/note-tracking
// shape, generalized from one hardcoded tracker channel to an arbitrary
// scale of mtof-mapped notes).
type MIDIOut struct {
	mu      sync.Mutex
	name    string
	out     drivers.Out
	notesOn map[uint8]bool
}

// Devices lists the available MIDI output port names.
func Devices() []string {
	var names []string
	for _, out := range midi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

// OpenMIDI opens the named MIDI output port.
func OpenMIDI(name string) (*MIDIOut, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("playback: MIDI port %q: %w", name, err)
	}
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("playback: opening MIDI port %q: %w", name, err)
	}
	return &MIDIOut{name: name, out: out, notesOn: map[uint8]bool{}}, nil
}

// Close sends note-off for every still-sounding note, then closes the port.
func (m *MIDIOut) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for note := range m.notesOn {
		_ = m.noteOffLocked(0, note)
	}
	return m.out.Close()
}

// SendMidi plays scale as a chord: a note-on per degree mapped through ftom
// (round to nearest semitone from refHz), held for dur, then all note-offs.
func (m *MIDIOut) SendMidi(scale []value.Interval, refHz float64, dur time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var notes []uint8
	for _, iv := range scale {
		hz := refHz * iv.ValueOf()
		n := FtoM(hz)
		if n < 0 || n > 127 {
			continue
		}
		notes = append(notes, uint8(n))
	}
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = NoteName(int(n))
	}
	log.Printf("playback: sending chord %s to %q", strings.Join(names, " "), m.name)
	for _, n := range notes {
		if err := m.noteOnLocked(0, n, 100); err != nil {
			return err
		}
	}
	time.Sleep(dur)
	for _, n := range notes {
		if err := m.noteOffLocked(0, n); err != nil {
			return err
		}
	}
	return nil
}

func (m *MIDIOut) noteOnLocked(channel, note, velocity uint8) error {
	if err := m.out.Send([]byte{0x90 | channel, note, velocity}); err != nil {
		return fmt.Errorf("playback: MIDI note-on: %w", err)
	}
	m.notesOn[note] = true
	return nil
}

func (m *MIDIOut) noteOffLocked(channel, note uint8) error {
	if err := m.out.Send([]byte{0x80 | channel, note, 0}); err != nil {
		return fmt.Errorf("playback: MIDI note-off: %w", err)
	}
	delete(m.notesOn, note)
	return nil
}

// FtoM converts a frequency in Hz to the nearest MIDI note number, A440
// tuned (spec's "mtof"/"ftom" stdlib pair, host-native half).
func FtoM(hz float64) int {
	if hz <= 0 {
		return -1
	}
	return int(mtofRound(hz))
}

func mtofRound(hz float64) float64 {
	const a440 = 440.0
	n := 69 + 12*math.Log2(hz/a440)
	return math.Round(n)
}
