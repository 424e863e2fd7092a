package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows annotation timers and the live editor counters.
type SessionStats interface {
	SetSession(image, total time.Duration)
	SetCounts(rois, historyIndex, historyLen int)
}

type sessionStats struct {
	imageLbl  *LabelWidget
	totalLbl  *LabelWidget
	countsLbl *LabelWidget
}

// NewSessionStats creates the image timer, total timer and counter labels
// at (row, startCol), (row, startCol+1) and (row, startCol+2) in parent.
// If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{imageLbl: Label(Width(14)), totalLbl: Label(Width(14)), countsLbl: Label(Width(26), Anchor("w"))}
	for i, lbl := range []*LabelWidget{s.imageLbl, s.totalLbl, s.countsLbl} {
		if parent != nil {
			Grid(lbl, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(lbl, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.imageLbl.Configure(Txt("Image: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.countsLbl.Configure(Txt(formatCounts(0, 0, 0)))
	return s
}

func (s *sessionStats) SetSession(image, total time.Duration) {
	if s == nil || s.imageLbl == nil || s.totalLbl == nil {
		return
	}
	s.imageLbl.Configure(Txt("Image: " + formatClock(image)))
	s.totalLbl.Configure(Txt("Total: " + formatClock(total)))
}

func (s *sessionStats) SetCounts(rois, historyIndex, historyLen int) {
	if s == nil || s.countsLbl == nil {
		return
	}
	s.countsLbl.Configure(Txt(formatCounts(rois, historyIndex, historyLen)))
}

func formatClock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// formatCounts shows the history position 1-based.
func formatCounts(rois, historyIndex, historyLen int) string {
	pos := 0
	if historyLen > 0 {
		pos = historyIndex + 1
	}
	return fmt.Sprintf("ROIs: %d  History: %d/%d", rois, pos, historyLen)
}
