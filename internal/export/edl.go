// Package export renders timeline documents into interchange formats for
// downstream editors. The only format today is the CMX3600 edit decision
// list, which survives being imported by essentially everything.
package export

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/lukasclt/Lumina/internal/timeline"
)

// GenerateEDL renders a CMX3600 EDL for the document's main video track,
// the video track with the lowest id. Overlay tracks and audio tracks are
// not representable in a single-track EDL and are skipped.
//
// Each segment becomes one cut event: source in/out from its offset into
// the source media, record in/out from its timeline placement.
func GenerateEDL(doc *timeline.Document, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, seg := range mainVideoSegments(doc) {
		srcIn := secondsToTimecode(seg.SourceOffset, fps)
		srcOut := secondsToTimecode(seg.SourceOffset+seg.Duration, fps)
		recIn := secondsToTimecode(seg.Start, fps)
		recOut := secondsToTimecode(seg.End(), fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clipName(seg)),
		)
		if seg.Src != "" {
			lines = append(lines, fmt.Sprintf("* MEDIA PATH:  %s", seg.Src))
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// mainVideoSegments returns the segments of the lowest-id video track in
// start order, skipping inactive segments.
func mainVideoSegments(doc *timeline.Document) []*timeline.Segment {
	mainID, found := -1, false
	for _, t := range doc.OrderedTracks() {
		if t.Type != timeline.TrackVideo {
			continue
		}
		if !found || t.ID < mainID {
			mainID, found = t.ID, true
		}
	}
	if !found {
		return nil
	}

	var out []*timeline.Segment
	for _, seg := range doc.SegmentsOnTrack(mainID) {
		if seg.Active {
			out = append(out, seg)
		}
	}
	return out
}

// clipName picks a human-readable name for the event comment.
func clipName(seg *timeline.Segment) string {
	if seg.Label != "" {
		return seg.Label
	}
	if seg.Src != "" {
		return filepath.Base(seg.Src)
	}
	return seg.ID
}

// secondsToTimecode formats a time in seconds as HH:MM:SS:FF at the given
// frame rate.
func secondsToTimecode(seconds float64, fps int) string {
	totalFrames := int(math.Round(seconds * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}
