package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/solotube/solotube/log"
)

// EventCallback receives property changes (name, value) and other mpv events (event name, raw event).
type EventCallback func(name string, data any)

// observedProperties are the mpv properties a widget needs to mirror.
var observedProperties = []string{
	"time-pos",
	"pause",
	"eof-reached",
	"duration",
	"media-title",
	"height",
}

// EventListener keeps a persistent IPC connection that receives property-change notifications.
type EventListener struct {
	socketPath string
	callback   EventCallback
	logger     *log.Logger

	mu        sync.Mutex
	conn      net.Conn
	stopCh    chan struct{}
	listening bool
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		logger:     log.For("mpv"),
	}
}

// Start opens the connection, subscribes to the observed properties and starts the read loop.
// mpv scopes observe_property to the issuing client, so subscriptions go over the same connection.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.DialTimeout("unix", el.socketPath, dialTimeout)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observedProperties {
		payload, err := encodeCommand([]any{"observe_property", i + 1, name})
		if err != nil {
			conn.Close()
			return err
		}
		if _, err := conn.Write(payload); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.stopCh = make(chan struct{})
	el.listening = true

	go el.readLoop(conn, el.stopCh)

	el.logger.Infof("event listener started on %s (observing: %v)", el.socketPath, observedProperties)
	return nil
}

// Stop terminates the listener. Safe to call when not listening.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	_ = el.conn.Close()
	el.listening = false
}

// Listening reports whether the read loop is running.
func (el *EventListener) Listening() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.listening
}

func (el *EventListener) readLoop(conn net.Conn, stop <-chan struct{}) {
	defer func() {
		el.mu.Lock()
		if el.conn == conn {
			el.listening = false
		}
		el.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	var partial []byte

	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		line, err := reader.ReadBytes('\n')
		if err == nil {
			el.processEvent(append(partial, line...))
			partial = nil
			continue
		}

		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			// a line cut by the deadline continues on the next read
			partial = append(partial, line...)
			continue
		}
		select {
		case <-stop:
		default:
			el.logger.Warnf("event listener read error: %v", err)
		}
		return
	}
}

// processEvent parses and dispatches a single event line. Command replies carry no
// "event" field and are ignored.
func (el *EventListener) processEvent(line []byte) {
	var event map[string]any
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		return
	}

	switch eventType {
	case "property-change":
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event["data"])
		}
	default:
		el.callback(eventType, event)
	}
}
