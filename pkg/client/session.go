package client

import "sync"

type EventKind int

const (
	LoggedIn EventKind = iota + 1
	LoggedOut
)

func (k EventKind) String() string {
	switch k {
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Event describes a change of the session's auth state.
type Event struct {
	Kind     EventKind
	Username string
}

// Session holds the bearer token of the logged in user and notifies
// subscribers when it changes. Subscribers are called synchronously, in
// subscription order, after the state has been updated.
type Session struct {
	mu       sync.RWMutex
	token    string
	username string

	subMu  sync.Mutex
	subs   map[int]func(Event)
	order  []int
	nextID int
}

func NewSession() *Session {
	return &Session{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores the credentials of a fresh login.
func (s *Session) Set(username, token string) {
	s.mu.Lock()
	s.username, s.token = username, token
	s.mu.Unlock()
	s.publish(Event{Kind: LoggedIn, Username: username})
}

// Clear forgets the credentials. Clearing an empty session publishes nothing.
func (s *Session) Clear() {
	s.mu.Lock()
	username, had := s.username, s.token != ""
	s.username, s.token = "", ""
	s.mu.Unlock()
	if had {
		s.publish(Event{Kind: LoggedOut, Username: username})
	}
}

func (s *Session) publish(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
