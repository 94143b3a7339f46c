package export

import (
	"strings"
	"testing"

	"github.com/lukasclt/Lumina/internal/timeline"
)

func buildDoc(t *testing.T) *timeline.Document {
	t.Helper()
	doc := timeline.NewDocument()
	if _, err := doc.AddTrack(timeline.TrackVideo, "Video 1"); err != nil {
		t.Fatal(err)
	}
	if _, err := doc.AddTrack(timeline.TrackAudio, "Audio 1"); err != nil {
		t.Fatal(err)
	}
	return doc
}

func place(t *testing.T, doc *timeline.Document, trackID int, start, duration, offset float64, label, src string) *timeline.Segment {
	t.Helper()
	seg := timeline.NewSegment(trackID, start, duration)
	seg.SourceOffset = offset
	seg.Label = label
	seg.Src = src
	placed, err := doc.AddSegment(seg)
	if err != nil {
		t.Fatal(err)
	}
	return placed
}

func TestGenerateEDL_SingleSegment(t *testing.T) {
	doc := buildDoc(t)
	place(t, doc, 0, 0, 2, 0, "Intro", "/media/intro.mp4")

	edl := GenerateEDL(doc, "Project One", 30.0)

	if !strings.Contains(edl, "TITLE: Project One") {
		t.Fatalf("missing title in EDL: %q", edl)
	}
	if !strings.Contains(edl, "FCM: NON-DROP FRAME") {
		t.Fatalf("missing non-drop-frame FCM: %q", edl)
	}
	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:02:00 00:00:00:00 00:00:02:00") {
		t.Fatalf("missing event line: %q", edl)
	}
	if !strings.Contains(edl, "* FROM CLIP NAME:  Intro") {
		t.Fatalf("missing clip name comment: %q", edl)
	}
	if !strings.Contains(edl, "* MEDIA PATH:  /media/intro.mp4") {
		t.Fatalf("missing media path comment: %q", edl)
	}
}

func TestGenerateEDL_SourceOffsetsSurvive(t *testing.T) {
	doc := buildDoc(t)
	// An auto-cut layout: timeline is contiguous, the source is not.
	place(t, doc, 0, 0, 1, 0, "Cut 1", "/clips/raw.mp4")
	place(t, doc, 0, 1, 1.5, 1.9, "Cut 2", "/clips/raw.mp4")

	edl := GenerateEDL(doc, "Cuts", 30.0)

	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00") {
		t.Fatalf("first event mismatch: %q", edl)
	}
	// Source in at 1.9s = frame 57; source out at 3.4s = frame 102.
	if !strings.Contains(edl, "002  AX       V     C        00:00:01:27 00:00:03:12 00:00:01:00 00:00:02:15") {
		t.Fatalf("second event mismatch: %q", edl)
	}
}

func TestGenerateEDL_SkipsOverlayAudioAndInactive(t *testing.T) {
	doc := buildDoc(t)
	if _, err := doc.AddTrack(timeline.TrackVideo, "Overlay"); err != nil {
		t.Fatal(err)
	}

	place(t, doc, 0, 0, 1, 0, "Main", "/main.mp4")
	place(t, doc, 2, 0, 1, 0, "Overlay", "/overlay.mp4")
	place(t, doc, 1, 0, 1, 0, "Audio", "/audio.wav")

	hidden := place(t, doc, 0, 2, 1, 0, "Hidden", "/main.mp4")
	active := false
	if _, err := doc.UpdateSegment(hidden.ID, timeline.SegmentPatch{Active: &active}); err != nil {
		t.Fatal(err)
	}

	edl := GenerateEDL(doc, "Flat", 30.0)

	if !strings.Contains(edl, "FROM CLIP NAME:  Main") {
		t.Errorf("main clip missing: %q", edl)
	}
	for _, absent := range []string{"Overlay", "Audio", "Hidden"} {
		if strings.Contains(edl, "FROM CLIP NAME:  "+absent) {
			t.Errorf("%s leaked into the EDL: %q", absent, edl)
		}
	}
	if strings.Contains(edl, "002") {
		t.Errorf("expected a single event: %q", edl)
	}
}

func TestGenerateEDL_DropFrame(t *testing.T) {
	doc := buildDoc(t)
	place(t, doc, 0, 0, 1, 0, "Clip", "/x.mp4")

	edl := GenerateEDL(doc, "Drop", 29.97)
	if !strings.Contains(edl, "FCM: DROP FRAME") {
		t.Fatalf("expected drop frame FCM, got: %q", edl)
	}
}

func TestGenerateEDL_EmptyDocument(t *testing.T) {
	doc := timeline.NewDocument()

	edl := GenerateEDL(doc, "Empty", 30.0)
	if !strings.Contains(edl, "TITLE: Empty") {
		t.Fatalf("missing title: %q", edl)
	}
	if strings.Contains(edl, "001") {
		t.Fatalf("empty document produced events: %q", edl)
	}
}

func TestSecondsToTimecode(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		fps     int
		want    string
	}{
		{name: "zero", seconds: 0, fps: 30, want: "00:00:00:00"},
		{name: "one second", seconds: 1, fps: 30, want: "00:00:01:00"},
		{name: "fractional second", seconds: 0.5, fps: 30, want: "00:00:00:15"},
		{name: "one minute", seconds: 60, fps: 30, want: "00:01:00:00"},
		{name: "one hour", seconds: 3600, fps: 30, want: "01:00:00:00"},
		{name: "rounds to nearest frame", seconds: 0.999, fps: 30, want: "00:00:01:00"},
		{name: "24 fps", seconds: 1.5, fps: 24, want: "00:00:01:12"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := secondsToTimecode(tc.seconds, tc.fps)
			if got != tc.want {
				t.Fatalf("secondsToTimecode(%v, %d) = %q, want %q", tc.seconds, tc.fps, got, tc.want)
			}
		})
	}
}
