package presenter

import "time"

// Ticker is a presenter refreshed by the loop.
type Ticker interface{ Tick(now time.Time) }

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters in order and then invokes the
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Wizard   *WizardPresenter
	Toolbar  *ToolbarPresenter
	Session  *SessionPresenter
	Render   *RenderPresenter
	Schedule func()
}

func NewLoop(wiz *WizardPresenter, toolbar *ToolbarPresenter, sess *SessionPresenter, render *RenderPresenter, schedule func()) *Loop {
	return &Loop{Wizard: wiz, Toolbar: toolbar, Session: sess, Render: render, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.TickAt(time.Now())
	if l.Schedule != nil {
		l.Schedule()
	}
}

// TickAt runs one refresh at now without rescheduling.
func (l *Loop) TickAt(now time.Time) {
	if l == nil {
		return
	}
	// Step changes first so the toolbar and canvas land on the right page.
	for _, t := range []Ticker{l.Wizard, l.Toolbar, l.Session, l.Render} {
		if t != nil {
			t.Tick(now)
		}
	}
}
