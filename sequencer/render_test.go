package sequencer

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestRenderWritesScore(t *testing.T) {
	rec, err := Render(twoVoices())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := rec.Encode(&buf, 120); err != nil {
		t.Fatal(err)
	}
	sm, err := smf.ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}

	type note struct {
		tick int64
		on   bool
		key  uint8
	}
	var notes []note
	for _, track := range sm.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			var ch, key, vel uint8
			msg := gomidi.Message(ev.Message)
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				notes = append(notes, note{tick, true, key})
			case msg.GetNoteEnd(&ch, &key):
				notes = append(notes, note{tick, false, key})
			}
		}
	}

	want := []note{{0, true, 60}, {0, true, 62}, {8, false, 60}, {16, false, 62}}
	if len(notes) != len(want) {
		t.Fatalf("notes = %v", notes)
	}
	for i := range want {
		if notes[i] != want[i] {
			t.Errorf("note %d = %v, want %v", i, notes[i], want[i])
		}
	}
}
