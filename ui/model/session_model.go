package model

import (
	"time"
)

// SessionModel tracks time spent annotating (current image and all images)
// plus the editor counters shown next to the canvas. Presenters poll
// Values() and Counts(). The zero value is ready to use.
type SessionModel struct {
	active          bool
	imageStart      time.Time
	imageDuration   time.Duration
	accumulated     time.Duration
	rois            int
	historyIndex    int
	historyLen      int
	imagesAnnotated int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the timers from the annotating flag and timestamp.
func (m *SessionModel) OnTick(annotating bool, now time.Time) {
	if m == nil {
		return
	}
	if annotating {
		if !m.active { // off -> on
			m.active = true
			m.imageStart = now
			m.imageDuration = 0
		}
		m.imageDuration = now.Sub(m.imageStart)
	} else if m.active { // on -> off
		m.imageDuration = now.Sub(m.imageStart)
		m.accumulated += m.imageDuration
		m.imagesAnnotated++
		m.active = false
	}
}

// Values returns the time on the current image and the total including it.
func (m *SessionModel) Values() (image, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	image = m.imageDuration
	total = m.accumulated
	if m.active {
		total += image
	}
	return
}

// SetCounts records the ROI count and the history cursor.
func (m *SessionModel) SetCounts(rois, historyIndex, historyLen int) {
	if m == nil {
		return
	}
	m.rois, m.historyIndex, m.historyLen = rois, historyIndex, historyLen
}

// Counts returns the values stored by SetCounts.
func (m *SessionModel) Counts() (rois, historyIndex, historyLen int) {
	if m == nil {
		return 0, 0, 0
	}
	return m.rois, m.historyIndex, m.historyLen
}

// ImagesAnnotated counts finished annotate periods.
func (m *SessionModel) ImagesAnnotated() int {
	if m == nil {
		return 0
	}
	return m.imagesAnnotated
}
