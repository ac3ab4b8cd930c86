package state

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddActivity_TrimsToLimit(t *testing.T) {
	s := New(3)
	for i := 0; i < 5; i++ {
		s.AddActivity("s1", "index.html", "toast", fmt.Sprintf("m%d", i))
	}

	snap := s.Snapshot()
	require.Len(t, snap.Activity, 3)
	assert.Equal(t, "m2", snap.Activity[0].Message)
	assert.Equal(t, "m4", snap.Activity[2].Message)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(10)
	s.AddActivity("s1", "vaccines.html", "delete", "vắc xin")

	snap := s.Snapshot()
	snap.Activity[0].Message = "changed"
	assert.Equal(t, "vắc xin", s.Snapshot().Activity[0].Message)
}

func TestSessions(t *testing.T) {
	s := New(10)
	s.SessionOpened("index.html")
	s.SessionOpened("calendar.html")
	s.SessionOpened("index.html")
	s.SessionClosed()

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Sessions)
	assert.Equal(t, []PageCount{{"calendar.html", 1}, {"index.html", 2}}, snap.PageViews)

	s.SessionClosed()
	s.SessionClosed()
	s.SessionClosed()
	assert.Equal(t, 0, s.Sessions(), "count never goes negative")
}

func TestRecorder_TagsSession(t *testing.T) {
	s := New(10)
	fixed := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Recorder("abc", "calendar.html").Record("reschedule", "Tiêm Cúm")

	assert.Equal(t, []ActivityEntry{{
		Timestamp: fixed,
		Session:   "abc",
		Page:      "calendar.html",
		Kind:      "reschedule",
		Message:   "Tiêm Cúm",
	}}, s.Snapshot().Activity)
}

func TestChangeCh_SignalsWithoutBlocking(t *testing.T) {
	s := New(10)
	s.AddActivity("s", "p", "toast", "a")
	s.AddActivity("s", "p", "toast", "b")

	select {
	case <-s.ChangeCh():
	default:
		t.Fatal("expected a change signal")
	}
	select {
	case <-s.ChangeCh():
		t.Fatal("signals coalesce")
	default:
	}
}

func TestConcurrentUse(t *testing.T) {
	s := New(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := s.Recorder(fmt.Sprint(i), "index.html")
			s.SessionOpened("index.html")
			for j := 0; j < 20; j++ {
				rec.Record("toast", "x")
				_ = s.Snapshot()
			}
			s.SessionClosed()
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Activity, 50)
	assert.Equal(t, 0, snap.Sessions)
	assert.Equal(t, []PageCount{{"index.html", 8}}, snap.PageViews)
}
