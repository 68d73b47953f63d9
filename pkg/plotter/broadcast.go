package plotter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Special progress messages that end a plot.
const (
	MessageComplete = "PLOT_COMPLETE"
	MessageError    = "PLOT_ERROR"
)

// DefaultHeartbeat is the interval between keep-alive comments.
const DefaultHeartbeat = time.Second

// subscriberBuffer is how many messages a subscriber may fall behind before
// it is dropped.
const subscriberBuffer = 256

// Event is the JSON payload of one progress frame.
type Event struct {
	Progress string `json:"progress"`
}

// Broadcaster fans progress messages out to any number of subscribers.
// Publishing never blocks: a subscriber that falls too far behind is
// disconnected. After Close every subscription ends and Publish is a no-op.
type Broadcaster struct {
	// Heartbeat is the keep-alive interval used by ServeHTTP.
	Heartbeat time.Duration

	mu     sync.Mutex
	subs   map[chan string]struct{}
	closed bool
}

// NewBroadcaster returns a broadcaster with the given heartbeat interval,
// or DefaultHeartbeat when it is not positive.
func NewBroadcaster(heartbeat time.Duration) *Broadcaster {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Broadcaster{Heartbeat: heartbeat, subs: make(map[chan string]struct{})}
}

// Subscribe registers a subscriber. The returned channel is closed when the
// subscriber is cancelled, dropped or the broadcaster is closed; cancel may
// be called more than once.
func (b *Broadcaster) Subscribe() (<-chan string, func()) {
	ch := make(chan string, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	return ch, func() { b.remove(ch) }
}

func (b *Broadcaster) remove(ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish sends msg to every subscriber.
func (b *Broadcaster) Publish(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	clear(b.subs)
}

// ServeHTTP streams progress messages as server-sent events until the
// client goes away or the broadcaster is closed.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the headers go out so a client that has seen the
	// response cannot miss a message.
	msgs, cancel := b.Subscribe()
	defer cancel()

	rc := http.NewResponseController(w)
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// An initial comment lets clients see the stream is open.
	if writeHeartbeat(w) != nil || rc.Flush() != nil {
		return
	}

	ticker := time.NewTicker(b.Heartbeat)
	defer ticker.Stop()
	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			err = WriteEvent(w, msg)
		case <-ticker.C:
			err = writeHeartbeat(w)
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			return
		}
	}
}

// WriteEvent writes msg as one server-sent event frame.
func WriteEvent(w io.Writer, msg string) error {
	data, err := json.Marshal(Event{Progress: msg})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

func writeHeartbeat(w io.Writer) error {
	_, err := io.WriteString(w, ":\n\n")
	return err
}
