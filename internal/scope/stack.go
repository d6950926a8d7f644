package scope

import "sync"

// Stack is the LIFO stack of build scopes. Exactly one scope is current at
// any instant: the top of the stack. The scope the stack is created with is
// the root; it stays on the stack for the stack's whole lifetime.
type Stack struct {
	mu     sync.Mutex
	scopes []*Scope
}

// NewStack creates a stack with root as its permanent bottom element.
func NewStack(root *Scope) *Stack {
	return &Stack{scopes: []*Scope{root}}
}

// Push makes s the current scope and returns it.
func (st *Stack) Push(s *Scope) *Scope {
	st.mu.Lock()
	st.scopes = append(st.scopes, s)
	st.mu.Unlock()
	return s
}

// Pop removes the current scope unless doing so would empty the stack: the
// root scope is permanent, so popping at depth 1 is a no-op.
func (st *Stack) Pop() {
	st.mu.Lock()
	if len(st.scopes) > 1 {
		st.scopes = st.scopes[:len(st.scopes)-1]
	}
	st.mu.Unlock()
}

// Current returns the scope on top of the stack.
func (st *Stack) Current() *Scope {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.scopes[len(st.scopes)-1]
}

// Depth reports how many scopes are on the stack, root included.
func (st *Stack) Depth() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.scopes)
}

// WhileCurrent pushes s, invokes fn, and guarantees the matching Pop on
// every exit path, including an fn that returns an error or panics. It lets
// callers address "the current scope" without tracking nesting themselves.
func (st *Stack) WhileCurrent(s *Scope, fn func() error) error {
	st.Push(s)
	defer st.Pop()
	return fn()
}
