// Package playback holds the single record of the current source and its play state.
//
// The store is mutated only by the player adapter's event handlers (OnLoad, OnReady,
// OnStateChange, OnError) and by SetLoopPoints. Everyone else reads snapshots or subscribes.
package playback

import (
	"sync"

	"github.com/samber/mo"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/player"
)

// Player is the part of the adapter the store drives itself.
type Player interface {
	SeekTo(seconds float64)
	Play()
	Destroy()
}

// Tracker is started and stopped as playback starts and stops.
type Tracker interface {
	Start()
	Stop()
}

// Store is the playback state container.
type Store struct {
	mu    sync.RWMutex
	state State

	player  Player
	tracker  Tracker

	nextID      int
	subscribers map[int]func(State)

	logger *log.Logger
}

// NewStore creates a store holding the initial state.
func NewStore() *Store {
	return &Store{
		subscribers: make(map[int]func(State)),
		logger:      log.For("playback"),
	}
}

// Bind attaches the player adapter and the time tracker.
func (s *Store) Bind(p Player, tracker Tracker) {
	s.player = p
	s.tracker = tracker
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	state.onReady = nil
	return state
}

// Ready reports whether the loaded widget is ready.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Ready
}

// Duration returns the media length in seconds.
func (s *Store) Duration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Duration
}

// LoopBounds returns the committed loop points.
func (s *Store) LoopBounds() mo.Option[Bounds] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LoopBounds
}

// Subscribe registers fn to receive every new state. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// mutate applies fn under the lock and notifies subscribers afterwards.
func (s *Store) mutate(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	state := s.state
	state.onReady = nil
	subscribers := make([]func(State), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subscribers = append(subscribers, sub)
	}
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub(state)
	}
}

// OnLoad replaces the state with a fresh record for source.
func (s *Store) OnLoad(source string, onReady func()) {
	s.stopTracking()

	s.mutate(func(state *State) {
		*state = State{
			SourceID: mo.Some(source),
			onReady:  onReady,
		}
	})
	s.logger.Infof("loading %s", source)
}

// OnReady populates the metadata, marks the source ready and paused, then fires and clears
// the pending ready callback.
func (s *Store) OnReady(info player.Info) {
	var callback func()

	s.mutate(func(state *State) {
		state.Duration = info.Duration
		state.Title = mo.EmptyableToOption(info.Title)
		state.Author = mo.EmptyableToOption(info.Author)
		state.Quality = mo.EmptyableToOption(info.Quality)
		state.URL = mo.EmptyableToOption(info.URL)
		state.Ready = true
		state.Playing = false
		state.Err = nil

		callback = state.onReady
		state.onReady = nil
	})
	s.logger.Infof("ready, duration %.3fs", info.Duration)

	if callback != nil {
		callback()
	}
}

// OnStateChange mirrors the widget's play state and starts or stops time tracking
// on transitions.
func (s *Store) OnStateChange(widgetState player.WidgetState) {
	if widgetState == player.WidgetBuffering {
		return
	}

	playing := widgetState == player.WidgetPlaying
	var changed, ready bool

	s.mutate(func(state *State) {
		ready = state.Ready
		if !ready || state.Playing == playing {
			return
		}
		state.Playing = playing
		changed = true
	})

	if !ready {
		s.logger.Debugf("ignoring %s before ready", widgetState)
		return
	}
	if changed {
		if playing {
			s.startTracking()
		} else {
			s.stopTracking()
		}
	}

	if widgetState == player.WidgetEnded {
		s.rewind()
	}
}

// rewind restarts a committed loop once the media ran out. A loop ending at the duration
// reaches the end of the file before its end boundary is ever sampled.
func (s *Store) rewind() {
	bounds, ok := s.LoopBounds().Get()
	if !ok || s.player == nil {
		return
	}

	s.logger.Debugf("media ended inside loop %s, restarting at %.3f", bounds, bounds.Start)
	s.player.SeekTo(bounds.Start)
	s.player.Play()
}

// OnError records a widget failure. Playback stops.
func (s *Store) OnError(err error) {
	s.stopTracking()

	s.mutate(func(state *State) {
		state.Err = err
		state.Playing = false
	})
	s.logger.Errorf("player error: %v", err)
}

// SetLoopPoints commits loop bounds. Callers pass a range that fits the duration.
func (s *Store) SetLoopPoints(start, end float64) {
	bounds := Bounds{Start: start, End: end}

	s.mutate(func(state *State) {
		if !bounds.Within(state.Duration) {
			s.logger.Warnf("loop points %s exceed duration %.3f", bounds, state.Duration)
		}
		state.LoopBounds = mo.Some(bounds)
	})
}

// Reset stops tracking, destroys the widget and replaces the whole state with the initial one.
func (s *Store) Reset() {
	s.stopTracking()
	if s.player != nil {
		s.player.Destroy()
	}

	s.mutate(func(state *State) {
		*state = State{}
	})
}

// Dispose resets the store and drops every subscriber.
func (s *Store) Dispose() {
	s.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = make(map[int]func(State))
	s.player = nil
	s.tracker = nil
}

func (s *Store) startTracking() {
	if s.tracker != nil {
		s.tracker.Start()
	}
}

func (s *Store) stopTracking() {
	if s.tracker != nil {
		s.tracker.Stop()
	}
}
