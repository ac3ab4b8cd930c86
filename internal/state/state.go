package state

import (
	"sort"
	"sync"
	"time"
)

// ActivityEntry is one user-visible action taken in a page session.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Page      string    `json:"page"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
}

// PageCount is the number of sessions opened for a page.
type PageCount struct {
	Page  string `json:"page"`
	Views int    `json:"views"`
}

// SnapshotData holds a point-in-time copy of AppState for JSON serialization.
type SnapshotData struct {
	StartedAt time.Time       `json:"startedAt"`
	Sessions  int             `json:"sessions"`
	PageViews []PageCount     `json:"pageViews"`
	Activity  []ActivityEntry `json:"activity"`
}

// AppState holds what live sessions share: the session count, per-page view
// counts and a bounded log of recent activity.
type AppState struct {
	mu          sync.RWMutex
	startedAt   time.Time
	sessions    int
	pageViews   map[string]int
	activity    []ActivityEntry
	maxActivity int
	now         func() time.Time
	changeCh    chan struct{} // signalled on every mutation
}

// New creates an AppState that keeps at most maxActivity entries.
func New(maxActivity int) *AppState {
	if maxActivity < 1 {
		maxActivity = 1
	}
	s := &AppState{
		pageViews:   map[string]int{},
		activity:    []ActivityEntry{},
		maxActivity: maxActivity,
		now:         func() time.Time { return time.Now().UTC() },
		changeCh:    make(chan struct{}, 1),
	}
	s.startedAt = s.now()
	return s
}

// notifyChange does a non-blocking send on changeCh.
// Must be called while NOT holding mu.
func (s *AppState) notifyChange() {
	select {
	case s.changeCh <- struct{}{}:
	default:
	}
}

// ChangeCh returns a channel that receives a value whenever the state changes.
func (s *AppState) ChangeCh() <-chan struct{} {
	return s.changeCh
}

// SessionOpened counts a new live session on page.
func (s *AppState) SessionOpened(page string) {
	s.mu.Lock()
	s.sessions++
	s.pageViews[page]++
	s.mu.Unlock()
	s.notifyChange()
}

// SessionClosed drops a live session.
func (s *AppState) SessionClosed() {
	s.mu.Lock()
	if s.sessions > 0 {
		s.sessions--
	}
	s.mu.Unlock()
	s.notifyChange()
}

// Sessions returns the number of live sessions.
func (s *AppState) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

// AddActivity appends an entry, trimming old entries if needed.
func (s *AppState) AddActivity(session, page, kind, message string) {
	s.mu.Lock()
	s.activity = append(s.activity, ActivityEntry{
		Timestamp: s.now(),
		Session:   session,
		Page:      page,
		Kind:      kind,
		Message:   message,
	})
	if len(s.activity) > s.maxActivity {
		s.activity = s.activity[len(s.activity)-s.maxActivity:]
	}
	s.mu.Unlock()
	s.notifyChange()
}

// Recorder returns a recorder that files activity under one session.
func (s *AppState) Recorder(session, page string) *SessionRecorder {
	return &SessionRecorder{state: s, session: session, page: page}
}

// Snapshot returns a copy of the current state for JSON serialization.
func (s *AppState) Snapshot() SnapshotData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]PageCount, 0, len(s.pageViews))
	for page, n := range s.pageViews {
		views = append(views, PageCount{Page: page, Views: n})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Page < views[j].Page })

	activity := make([]ActivityEntry, len(s.activity))
	copy(activity, s.activity)

	return SnapshotData{
		StartedAt: s.startedAt,
		Sessions:  s.sessions,
		PageViews: views,
		Activity:  activity,
	}
}

// SessionRecorder tags activity with a session and page.
type SessionRecorder struct {
	state   *AppState
	session string
	page    string
}

func (r *SessionRecorder) Record(kind, message string) {
	r.state.AddActivity(r.session, r.page, kind, message)
}
