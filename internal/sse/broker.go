// Package sse streams store changes to browsers as Server-Sent Events.
package sse

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/starford/digimark/internal/service"
)

// EventDashboardUpdated tells clients to re-fetch dashboard figures.
const EventDashboardUpdated = "dashboard.updated"

const (
	defaultThrottle  = 2 * time.Second
	defaultHeartbeat = 15 * time.Second
	clientBuffer     = 64
)

// Event is one message on the stream.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// affectsDashboard reports whether a change can alter dashboard figures.
func affectsDashboard(kind string) bool {
	return strings.HasPrefix(kind, "record.") || kind == service.ChangeStoreReloaded
}

// Option configures a Broker.
type Option func(*Broker)

// WithHeartbeat sets how often idle streams receive a keep-alive comment.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.heartbeat = d
		}
	}
}

// Broker fans events out to subscribed streams.
//
// A single loop goroutine owns the subscriber set, the frame sequence and the
// dashboard throttle; every public method talks to it over channels.
type Broker struct {
	throttle  time.Duration
	heartbeat time.Duration

	join    chan chan []byte
	leave   chan chan []byte
	events  chan Event
	counts  chan chan int
	dropped atomic.Int64

	stop    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker that emits dashboard.updated at most once per
// dashboardThrottle.
func NewBroker(dashboardThrottle time.Duration, opts ...Option) *Broker {
	if dashboardThrottle <= 0 {
		dashboardThrottle = defaultThrottle
	}
	b := &Broker{
		throttle:  dashboardThrottle,
		heartbeat: defaultHeartbeat,
		join:      make(chan chan []byte),
		leave:     make(chan chan []byte),
		events:    make(chan Event, 256),
		counts:    make(chan chan int),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.loop()
	return b
}

// frame encodes e in text/event-stream format.
func frame(seq uint64, e Event) ([]byte, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("id: ")
	buf.WriteString(strconv.FormatUint(seq, 10))
	buf.WriteString("\nevent: ")
	buf.WriteString(e.Type)
	buf.WriteString("\ndata: ")
	buf.Write(payload)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

func (b *Broker) loop() {
	defer close(b.stopped)

	subs := make(map[chan []byte]struct{})
	var (
		seq           uint64
		lastDashboard time.Time
	)

	send := func(e Event) {
		seq++
		msg, err := frame(seq, e)
		if err != nil {
			return
		}
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				b.dropped.Add(1)
			}
		}
	}

	for {
		select {
		case <-b.stop:
			for ch := range subs {
				close(ch)
			}
			return

		case ch := <-b.join:
			subs[ch] = struct{}{}

		case ch := <-b.leave:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case e := <-b.events:
			send(e)
			if !affectsDashboard(e.Type) {
				continue
			}
			if now := time.Now(); now.Sub(lastDashboard) >= b.throttle {
				lastDashboard = now
				send(Event{Type: EventDashboardUpdated, Data: struct{}{}})
			}

		case resp := <-b.counts:
			resp <- len(subs)
		}
	}
}

// Close stops the loop and closes every subscriber channel. It is safe to
// call more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stop)
	}
	<-b.stopped
}

// Subscribe registers a new stream. The channel is closed on Unsubscribe or
// Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.join <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes ch and closes it.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.leave <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of open streams.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.counts <- resp:
		return <-resp
	case <-b.stopped:
		return 0
	}
}

// Dropped returns how many frames were skipped because a subscriber's
// buffer was full.
func (b *Broker) Dropped() int64 {
	return b.dropped.Load()
}

// Publish queues e for every subscriber. Slow subscribers miss frames rather
// than block the loop.
func (b *Broker) Publish(e Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.events <- e:
	case <-b.stopped:
	}
}

// PublishChange implements service.Notifier.
func (b *Broker) PublishChange(kind, id string) {
	b.Publish(Event{Type: kind, Data: map[string]string{"id": id}})
}

// ServeHTTP streams events until the client goes away or the broker closes.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.heartbeat)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
