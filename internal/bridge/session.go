// Package bridge runs the admin glue for one browser page over a websocket.
//
// The server keeps a dom.Tree parsed from the exact markup the browser was
// served. Tree mutations and widget calls become commands for the browser;
// browser events come back addressed by element ref and are dispatched on
// the tree. All of that happens on a single event-loop goroutine per session.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vax-admin/internal/admin"
	"vax-admin/internal/dom"
	"vax-admin/internal/metrics"
	"vax-admin/internal/state"
	"vax-admin/internal/widget"
)

const (
	outboxSize   = 256
	inboxSize    = 64
	writeTimeout = 10 * time.Second
)

// Config carries what a session needs besides its connection and page.
type Config struct {
	PingInterval time.Duration
	Metrics      *metrics.Metrics
	State        *state.AppState
	Logger       *slog.Logger
	// PanelOptions are passed to admin.New after the session's own.
	PanelOptions []admin.Option
}

// Session is one connected page.
type Session struct {
	ID   string
	page string

	conn    *websocket.Conn
	tree    *dom.Tree
	cfg     Config
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics

	out  chan Command
	done <-chan struct{}

	// Owned by the event loop.
	started   bool
	libs      map[string]bool
	upgraded  map[string]bool
	dialogs   map[string]func(widget.AlertResult)
	ranges    map[string]func(start, end time.Time)
	calendars map[string]widget.CalendarHandlers
}

// NewSession parses markup, which must be byte-for-byte what the browser
// received for page.
func NewSession(conn *websocket.Conn, page string, markup []byte, cfg Config) (*Session, error) {
	tree, err := dom.ParseString(string(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}

	id := uuid.NewString()
	s := &Session{
		ID:        id,
		page:      page,
		conn:      conn,
		tree:      tree,
		cfg:       cfg,
		logger:    cfg.Logger.With("session", id, "page", page, "component", "Bridge"),
		tracer:    otel.Tracer("vax-admin/bridge"),
		metrics:   cfg.Metrics,
		out:       make(chan Command, outboxSize),
		libs:      map[string]bool{},
		upgraded:  map[string]bool{},
		dialogs:   map[string]func(widget.AlertResult){},
		ranges:    map[string]func(start, end time.Time){},
		calendars: map[string]widget.CalendarHandlers{},
	}
	tree.Observe(func(m dom.Mutation) { s.send(commandFor(m)) })
	return s, nil
}

// Run serves the session until the connection closes or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.done = ctx.Done()

	s.metrics.SessionOpened()
	if s.cfg.State != nil {
		s.cfg.State.SessionOpened(s.page)
	}
	defer func() {
		s.metrics.SessionClosed()
		if s.cfg.State != nil {
			s.cfg.State.SessionClosed()
		}
		s.logger.Debug("Session closed")
	}()
	s.logger.Debug("Session opened")

	inbox := make(chan Message, inboxSize)
	writerDone := make(chan struct{})
	go s.readLoop(ctx, cancel, inbox)
	go func() {
		defer close(writerDone)
		s.writeLoop(ctx, cancel)
	}()
	// The writer owns the close frame; let it go out before the caller
	// closes the connection.
	defer func() { <-writerDone }()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-inbox:
			s.handle(ctx, msg)
		}
	}
}

func (s *Session) readLoop(ctx context.Context, cancel context.CancelFunc, inbox chan<- Message) {
	defer cancel()

	readTimeout := 2 * s.cfg.PingInterval
	s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read failed", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.metrics.MalformedMessage()
			s.logger.Warn("Dropping malformed message", "error", err)
			continue
		}
		select {
		case inbox <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) writeLoop(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case cmd := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteJSON(cmd); err != nil {
				s.logger.Error("WebSocket write failed", "op", cmd.Op, "error", err)
				return
			}
			s.metrics.CommandSent(cmd.Op)
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("Ping failed", "error", err)
				return
			}
		}
	}
}

// send queues cmd for the writer. It gives up once the session is over.
func (s *Session) send(cmd Command) {
	select {
	case s.out <- cmd:
	case <-s.done:
	}
}

func (s *Session) handle(ctx context.Context, msg Message) {
	if !s.started && msg.Type != TypeHello {
		s.logger.Warn("Event before hello, ignoring", "type", msg.Type)
		return
	}

	_, span := s.tracer.Start(ctx, "bridge."+msg.Type, trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("page", s.page),
		attribute.Int("target", msg.Target),
	))
	defer span.End()
	begin := time.Now()
	defer func() { s.metrics.ObserveEvent(msg.Type, time.Since(begin)) }()

	switch msg.Type {
	case TypeHello:
		s.start(msg)
	case TypeClick, TypeModalHidden:
		s.dispatch(msg)
	case TypeSubmit:
		ev := s.dispatch(msg)
		if ev != nil && !ev.DefaultPrevented() {
			s.send(Command{Op: OpSubmit, Ref: msg.Target})
		}
	case TypeDialogResult:
		then, ok := s.dialogs[msg.ID]
		if !ok {
			s.unknown(span, msg)
			return
		}
		delete(s.dialogs, msg.ID)
		then(widget.AlertResult{Confirmed: msg.Confirmed})
	case TypeDateRangeApply:
		apply, ok := s.ranges[msg.ID]
		if !ok {
			s.unknown(span, msg)
			return
		}
		apply(time.Time(msg.Start), time.Time(msg.End))
	case TypeCalendarClick, TypeCalendarDrop:
		h, ok := s.calendars[msg.ID]
		if !ok || msg.Event == nil {
			s.unknown(span, msg)
			return
		}
		fn := h.EventClick
		if msg.Type == TypeCalendarDrop {
			fn = h.EventDrop
		}
		if fn != nil {
			fn(*msg.Event)
		}
	default:
		s.unknown(span, msg)
	}
}

// start runs the page glue once the browser has said which libraries loaded.
func (s *Session) start(msg Message) {
	if s.started {
		return
	}
	s.started = true
	for name, ok := range msg.Libs {
		s.libs[name] = ok
	}
	if msg.Refs != 0 && msg.Refs != s.tree.Len() {
		s.logger.Warn("Browser and server disagree on element count", "browser", msg.Refs, "server", s.tree.Len())
	}

	var rec admin.Recorder = discard{}
	if s.cfg.State != nil {
		rec = s.cfg.State.Recorder(s.ID, s.page)
	}
	opts := append([]admin.Option{
		admin.WithRecorder(rec),
		admin.WithLogger(s.logger),
	}, s.cfg.PanelOptions...)

	panel := admin.New(s.tree, s.widgets(), opts...)
	ran := panel.Run(s.page)
	rec.Record(admin.KindPage, s.page)
	s.metrics.PageLoaded(s.page, ran != "")
	s.logger.Info("Page started", "initializer", ran)
}

// dispatch syncs submitted values and validity into the tree and fires the event at its
// target. It returns nil when the target is unknown.
func (s *Session) dispatch(msg Message) *dom.Event {
	target := s.tree.ElementByRef(msg.Target)
	if target == nil {
		s.metrics.MalformedMessage()
		s.logger.Warn("Event for unknown element", "type", msg.Type, "target", msg.Target)
		return nil
	}
	for ref, v := range msg.Values {
		s.tree.SyncValue(ref, v)
		s.tree.SyncValidity(ref, true)
	}
	for _, ref := range msg.Invalid {
		s.tree.SyncValidity(ref, false)
	}
	ev := dom.NewEvent(msg.Type, target)
	s.tree.Dispatch(ev)
	return ev
}

func (s *Session) unknown(span trace.Span, msg Message) {
	s.metrics.MalformedMessage()
	span.SetStatus(codes.Error, "unroutable message")
	s.logger.Warn("Unroutable message", "type", msg.Type, "id", msg.ID)
}

type discard struct{}

func (discard) Record(string, string) {}
