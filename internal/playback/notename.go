package playback

import (
	"fmt"
	"strings"
)

// NoteName renders a MIDI note number (0-127) as "c4", "c#4", adapted from
// the teacher's internal/music.MidiToNoteName, dropping its tracker-specific
// fixed-3-character padding since sendMidi only uses this for log output,
// not a column-aligned display.
func NoteName(midiNote int) string {
	if midiNote < 0 || midiNote > 127 {
		return "---"
	}
	names := []string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}
	octave := (midiNote / 12) - 1
	name := names[midiNote%12]
	if strings.Contains(name, "#") {
		return fmt.Sprintf("%s%d", name, octave)
	}
	return fmt.Sprintf("%s%d", name, octave)
}
