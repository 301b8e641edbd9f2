package handler

import "time"

// SetClock pins the time used to resolve default report ranges.
func (h *ReportsHandler) SetClock(now func() time.Time) {
	h.now = now
}
