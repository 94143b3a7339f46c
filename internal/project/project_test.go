package project

import (
	"strings"
	"testing"

	"github.com/lukasclt/Lumina/internal/timeline"
)

func TestNew(t *testing.T) {
	p := New("Interview Edit")

	if !strings.HasPrefix(p.ID, "proj-") {
		t.Errorf("id = %q, want proj- prefix", p.ID)
	}
	if p.Name != "Interview Edit" {
		t.Errorf("name = %q", p.Name)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}

	tracks := p.Timeline.OrderedTracks()
	if len(tracks) != 2 {
		t.Fatalf("got %d seeded tracks, want 2", len(tracks))
	}
	if tracks[0].Type != timeline.TrackVideo || tracks[1].Type != timeline.TrackAudio {
		t.Errorf("seeded tracks = %v/%v, want video/audio", tracks[0].Type, tracks[1].Type)
	}
}

func TestNew_DefaultName(t *testing.T) {
	p := New("")
	if p.Name != DefaultName {
		t.Errorf("name = %q, want %q", p.Name, DefaultName)
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	a, b := New(""), New("")
	if a.ID == b.ID {
		t.Errorf("two projects share id %q", a.ID)
	}
}

func TestRename(t *testing.T) {
	p := New("Before")
	before := p.UpdatedAt

	p.Rename("After")
	if p.Name != "After" {
		t.Errorf("name = %q, want After", p.Name)
	}
	if p.UpdatedAt.Before(before) {
		t.Error("rename must not move UpdatedAt backwards")
	}

	p.Rename("")
	if p.Name != "After" {
		t.Error("empty rename must be ignored")
	}
}

func TestClone_IsolatesTimeline(t *testing.T) {
	p := New("Original")
	if _, err := p.Timeline.AddSegment(timeline.NewSegment(0, 0, 5)); err != nil {
		t.Fatal(err)
	}

	c := p.Clone()
	if _, err := c.Timeline.AddSegment(timeline.NewSegment(0, 10, 5)); err != nil {
		t.Fatal(err)
	}

	if got := len(p.Timeline.AllSegments()); got != 1 {
		t.Errorf("original has %d segments after editing the clone, want 1", got)
	}
	if got := len(c.Timeline.AllSegments()); got != 2 {
		t.Errorf("clone has %d segments, want 2", got)
	}
}
