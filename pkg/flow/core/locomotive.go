package core

import "sync"

// Locomotive drives an orchestration one unit at a time.
//
// advance inspects the orchestration state and either launches the next
// unit, handing it wake as the hook its continuation must call once, and
// returns true, or finishes the run and returns false. When a unit settles
// before it returns, the locomotive loops instead of recursing, so long
// synchronous chains run in constant stack. When it settles later, the
// goroutine calling wake takes over the driving.
type Locomotive struct {
	mu      sync.Mutex
	inside  bool
	woke    bool
	advance func(wake func()) bool
}

func NewLocomotive(advance func(wake func()) bool) *Locomotive {
	return &Locomotive{advance: advance}
}

// Start runs the orchestration until it finishes or a unit suspends.
func (l *Locomotive) Start() {
	l.drive()
}

func (l *Locomotive) drive() {
	for {
		l.mu.Lock()
		l.inside, l.woke = true, false
		l.mu.Unlock()

		running := l.advance(l.wake)

		l.mu.Lock()
		l.inside = false
		woke := l.woke
		l.mu.Unlock()

		if !running || !woke {
			return
		}
	}
}

func (l *Locomotive) wake() {
	l.mu.Lock()
	if l.inside {
		l.woke = true
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	l.drive()
}
