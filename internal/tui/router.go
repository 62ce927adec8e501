// ABOUTME: Navigator implementation that drives the TUI's screens
// ABOUTME: Session resets from HTTP goroutines arrive as bubbletea messages, in order

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/centerops/cms-console/internal/session"
)

// navigateMsg asks the app to show a view
type navigateMsg struct {
	view session.View
}

// Router tracks the current view for the session gateway. Navigate queues a
// message for the running program; Set changes the view silently for
// transitions the app has already made itself.
//
// Queued views are delivered by a single goroutine in the order Navigate
// recorded them. Navigate never blocks on the program, so it is safe to
// call while Update is running.
type Router struct {
	mu       sync.Mutex
	wake     *sync.Cond
	current  session.View
	pending  []session.View
	attached bool
	closed   bool
}

// NewRouter starts at view
func NewRouter(view session.View) *Router {
	r := &Router{current: view}
	r.wake = sync.NewCond(&r.mu)
	return r
}

// Attach starts delivering navigations to send, usually p.Send. Only the
// first call has an effect.
func (r *Router) Attach(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attached || r.closed {
		return
	}
	r.attached = true
	go r.deliver(send)
}

// Close stops delivery; queued navigations are discarded
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.pending = nil
	r.wake.Broadcast()
}

func (r *Router) deliver(send func(tea.Msg)) {
	for {
		r.mu.Lock()
		for len(r.pending) == 0 && !r.closed {
			r.wake.Wait()
		}
		if r.closed {
			r.mu.Unlock()
			return
		}
		v := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()

		send(navigateMsg{view: v})
	}
}

func (r *Router) Current() session.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate switches views and notifies the program. Navigating to the
// current view does nothing.
func (r *Router) Navigate(v session.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == v {
		return
	}
	r.current = v
	if r.attached && !r.closed {
		r.pending = append(r.pending, v)
		r.wake.Signal()
	}
}

// Set records v without notifying the program
func (r *Router) Set(v session.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = v
}
