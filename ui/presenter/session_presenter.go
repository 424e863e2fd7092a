package presenter

import (
	"time"

	"github.com/soocke/roi-annotator/ui/model"
)

// StepSource reports the wizard step.
type StepSource interface{ Step() model.Step }

// EditorStats reports the live editor counters. ok is false when no
// session is running.
type EditorStats interface {
	Stats() (rois, historyIndex, historyLen int, ok bool)
}

// SessionView displays annotation timers and counters.
type SessionView interface {
	SetSession(image, total time.Duration)
	SetCounts(rois, historyIndex, historyLen int)
}

// SessionPresenter advances the session model and pushes it to the view.
type SessionPresenter struct {
	sess   *model.SessionModel
	step   StepSource
	stats  EditorStats
	view   SessionView
	counts [3]int
	shown  bool
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, step StepSource, stats EditorStats, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, step: step, stats: stats, view: view}
}

// Tick updates timers every call and counters when they change.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.step == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.step.Step() == model.StepAnnotate, now)
	img, total := p.sess.Values()
	p.view.SetSession(img, total)

	if p.stats == nil {
		return
	}
	if rois, idx, n, ok := p.stats.Stats(); ok {
		p.sess.SetCounts(rois, idx, n)
	}
	r, i, n := p.sess.Counts()
	if c := [3]int{r, i, n}; !p.shown || c != p.counts {
		p.counts, p.shown = c, true
		p.view.SetCounts(r, i, n)
	}
}
