package editor

import "math"

// SnapTime pulls a candidate time onto the nearest significant time within
// the snap threshold: the playhead, or the start/end edge of any segment
// other than excludeID. The threshold is the pixel radius converted
// through the current zoom. Candidates are scanned playhead first, then
// segment edges in document order; the smallest distance wins and earlier
// candidates win exact ties. With snapping disabled, or nothing within
// the threshold, the candidate comes back unchanged.
func (e *Engine) SnapTime(candidate, playhead float64, excludeID string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap(candidate, playhead, excludeID)
}

// snap is SnapTime without the lock, for gesture-internal use.
func (e *Engine) snap(candidate, playhead float64, excludeID string) (float64, bool) {
	if !e.snapEnabled {
		return candidate, false
	}
	threshold := e.pxToSeconds(e.snapThresholdPx)

	best := candidate
	bestDist := math.Inf(1)
	consider := func(target float64) {
		if d := math.Abs(candidate - target); d <= threshold && d < bestDist {
			best = target
			bestDist = d
		}
	}

	consider(playhead)
	for _, seg := range e.doc.AllSegments() {
		if seg.ID == excludeID {
			continue
		}
		consider(seg.Start)
		consider(seg.End())
	}

	return best, !math.IsInf(bestDist, 1)
}
