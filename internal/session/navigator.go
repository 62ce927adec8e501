// ABOUTME: View routing contract used by the gateway's redirect on 401
// ABOUTME: The CLI and TUI each provide a Navigator for their surface

package session

import "sync"

// View names a top-level screen of the console
type View string

const (
	ViewLogin View = "login"
	ViewHome  View = "home"
)

// Navigator reports and changes the current view
type Navigator interface {
	Current() View
	Navigate(View)
}

// StaticNavigator records the current view and runs an optional hook on
// each change. The hook runs outside the lock.
type StaticNavigator struct {
	mu       sync.Mutex
	current  View
	onChange func(View)
}

// NewStaticNavigator starts at view and calls onChange (may be nil) when the
// view changes
func NewStaticNavigator(view View, onChange func(View)) *StaticNavigator {
	return &StaticNavigator{current: view, onChange: onChange}
}

func (n *StaticNavigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate switches views. Navigating to the current view does nothing.
func (n *StaticNavigator) Navigate(v View) {
	n.mu.Lock()
	if n.current == v {
		n.mu.Unlock()
		return
	}
	n.current = v
	hook := n.onChange
	n.mu.Unlock()

	if hook != nil {
		hook(v)
	}
}
