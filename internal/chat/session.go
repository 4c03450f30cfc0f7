package chat

import (
	"context"
	"sync"

	"friday-chat/internal/models"
)

// Sender performs one outbound generation call.
type Sender interface {
	Send(ctx context.Context, message string, history []models.Message) (string, error)
}

// Session owns a State and serializes access to it. Sends are single-flight:
// a Submit while another is in flight is a no-op.
type Session struct {
	sender     Sender
	maxHistory int

	mu       sync.Mutex
	state    State
	onChange func(State)
}

// NewSession returns an empty session. maxHistory bounds the prior turns sent
// with each message; zero sends none.
func NewSession(sender Sender, maxHistory int) *Session {
	return &Session{sender: sender, maxHistory: maxHistory}
}

// OnChange registers fn to be called with a snapshot after every mutation.
// fn runs on the goroutine that caused the change, outside the session lock.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Submit sends input and blocks until the reply or failure is recorded.
// It returns false without sending when the input is blank or a send is
// already in flight. Send errors become the fallback message.
func (s *Session) Submit(ctx context.Context, input string) bool {
	var (
		text    string
		ok      bool
		history []models.Message
	)
	s.update(func(st State) State {
		var next State
		next, text, ok = Submit(st, input)
		if ok {
			history = History(st.Messages, s.maxHistory)
		}
		return next
	})
	if !ok {
		return false
	}

	settled := false
	defer func() {
		if !settled {
			s.update(Fail)
		}
	}()

	reply, err := s.sender.Send(ctx, text, history)
	settled = true
	if err != nil {
		s.update(Fail)
		return true
	}
	s.update(func(st State) State { return Receive(st, reply) })
	return true
}

// Clear empties the history.
func (s *Session) Clear() {
	s.update(Clear)
}

func (s *Session) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// Messages returns a copy of the history.
func (s *Session) Messages() []models.Message {
	return s.snapshot().Messages
}

// Loading reports whether a send is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

func (s *Session) update(fn func(State) State) {
	s.mu.Lock()
	before := s.state
	s.state = fn(s.state)
	changed := !sameState(before, s.state)
	snapshot := copyState(s.state)
	notify := s.onChange
	s.mu.Unlock()

	if changed && notify != nil {
		notify(snapshot)
	}
}

func sameState(a, b State) bool {
	if a.Loading != b.Loading || len(a.Messages) != len(b.Messages) {
		return false
	}
	return len(a.Messages) == 0 || &a.Messages[0] == &b.Messages[0]
}

func copyState(s State) State {
	msgs := make([]models.Message, len(s.Messages))
	copy(msgs, s.Messages)
	return State{Messages: msgs, Loading: s.Loading}
}
