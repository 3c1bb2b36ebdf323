package player

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/metadata"
	"github.com/solotube/solotube/where"
	"github.com/spf13/viper"
)

const (
	metadataTimeout   = 3 * time.Second
	seekSettleTimeout = time.Second
)

// MPV is a Library backed by a single long-lived mpv process. The process idles until
// a widget loads a file into it.
type MPV struct {
	socketPath string
	extraArgs  []string
	cmd        *exec.Cmd
	exited     chan struct{}
	mu         sync.Mutex // serializes IPC commands
	logger     *log.Logger

	listener *EventListener

	activeMu sync.Mutex
	active   *mpvWidget

	// Describe looks up title and author for a source. Nil disables the lookup.
	Describe func(ctx context.Context, source string) (*metadata.Video, error)
}

// NewMPV creates an mpv library that is not started yet.
func NewMPV(extraArgs ...string) *MPV {
	m := &MPV{
		extraArgs: extraArgs,
		exited:    make(chan struct{}),
		logger:    log.For("mpv"),
	}
	if viper.GetBool(key.MetadataFetch) {
		m.Describe = metadata.Describe
	}
	return m
}

// NewMPVFromConfig creates an mpv library with the user's extra arguments.
func NewMPVFromConfig() *MPV {
	return NewMPV(viper.GetStringSlice(key.PlayerMPVArgs)...)
}

// Start spawns the mpv process. The library becomes Available once the IPC socket accepts
// connections; the caller does not wait for that.
func (m *MPV) Start() error {
	if m.cmd != nil {
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Solotube, randomBytes))

	// Respect the user's mpv.conf: no --vo, --profile or --hwdec here.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--title=%s", constant.Solotube),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
	}
	args = append(args, m.extraArgs...)

	m.cmd = exec.Command("mpv", args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		m.cmd = nil
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	m.logger.Infof("mpv started, ipc socket %s", m.socketPath)
	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Available reports whether mpv is running and its IPC socket accepts connections.
func (m *MPV) Available() bool {
	if m.cmd == nil || m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	conn, err := net.DialTimeout("unix", m.socketPath, dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Create loads source into mpv, replacing whatever was playing.
func (m *MPV) Create(source string, instance uuid.UUID, emit func(Event)) (Widget, error) {
	target, err := MediaTarget(source)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	if m.listener == nil {
		m.listener = NewEventListener(m.socketPath, m.dispatch)
	}
	if err := m.listener.Start(); err != nil {
		return nil, err
	}

	w := &mpvWidget{
		mpv:      m,
		instance: instance,
		emit:     emit,
		source:   source,
		target:   target,
	}

	m.activeMu.Lock()
	m.active = w
	m.activeMu.Unlock()

	if _, err := m.sendCommand("set_property", "pause", true); err != nil {
		return nil, fmt.Errorf("pause before load: %w", err)
	}
	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return nil, fmt.Errorf("loadfile: %w", err)
	}

	if m.Describe != nil {
		go w.describe(m.Describe)
	}

	return w, nil
}

func (m *MPV) dispatch(name string, data any) {
	m.activeMu.Lock()
	w := m.active
	m.activeMu.Unlock()

	if w != nil {
		w.observe(name, data)
	}
}

func (m *MPV) release(w *mpvWidget) {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()

	if m.active == w {
		m.active = nil
	}
}

// Close shuts down mpv and removes its socket.
func (m *MPV) Close() error {
	if m.listener != nil {
		m.listener.Stop()
	}

	if m.cmd == nil {
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// getFloatProperty retrieves a float64 mpv property.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// mpvWidget mirrors the state of the file loaded for one instance.
type mpvWidget struct {
	mpv      *MPV
	instance uuid.UUID
	emit     func(Event)
	source   string
	target   string

	mu        sync.Mutex
	loaded    bool
	announced bool
	destroyed bool
	duration  float64
	position  float64
	positions int
	seeking   bool
	seekedAt  time.Time
	title     string
	author    string
	height    int
	paused    bool
}

func (w *mpvWidget) observe(name string, data any) {
	w.mu.Lock()

	if w.destroyed {
		w.mu.Unlock()
		return
	}

	var events []Event

	switch name {
	case "file-loaded":
		// notifications that arrived before this may describe the previous file
		w.loaded = true
		w.duration = 0
		w.seeking = false
		go w.refreshDuration()
	case "duration":
		if d, ok := data.(float64); ok && w.loaded {
			w.duration = d
		}
	case "media-title":
		if t, ok := data.(string); ok && w.title == "" && !strings.Contains(t, "://") {
			w.title = t
		}
	case "height":
		if h, ok := data.(float64); ok {
			w.height = int(h)
		}
	case "time-pos":
		if t, ok := data.(float64); ok && !w.settling() {
			w.position = t
			w.positions++
		}
	case "playback-restart":
		w.seeking = false
	case "pause":
		if p, ok := data.(bool); ok {
			w.paused = p
			if w.announced {
				events = append(events, w.stateEvent(lo.Ternary(p, WidgetPaused, WidgetPlaying)))
			}
		}
	case "eof-reached":
		if eof, ok := data.(bool); ok && eof && w.announced {
			events = append(events, w.stateEvent(WidgetEnded))
		}
	case "end-file":
		if raw, ok := data.(map[string]any); ok && raw["reason"] == "error" {
			msg, _ := raw["file_error"].(string)
			events = append(events, Event{
				Kind:     EventError,
				Instance: w.instance,
				Err:      fmt.Errorf("mpv could not play %s: %s", w.target, msg),
			})
		}
	}

	if !w.announced && w.loaded && w.duration > 0 {
		w.announced = true
		events = append(events, Event{Kind: EventReady, Instance: w.instance, Info: w.info()})
	}

	w.mu.Unlock()

	for _, e := range events {
		w.emit(e)
	}
}

func (w *mpvWidget) refreshDuration() {
	d, err := w.mpv.getFloatProperty("duration")
	if err != nil {
		w.mpv.logger.Debugf("duration after load: %v", err)
		return
	}
	w.observe("duration", d)
}

func (w *mpvWidget) stateEvent(state WidgetState) Event {
	return Event{Kind: EventStateChange, Instance: w.instance, State: state}
}

func (w *mpvWidget) info() Info {
	info := Info{
		Duration: w.duration,
		Title:    w.title,
		Author:   w.author,
		URL:      w.target,
	}
	if w.height > 0 {
		info.Quality = fmt.Sprintf("%dp", w.height)
	}
	return info
}

// describe fills in title and author from the metadata service.
func (w *mpvWidget) describe(lookup func(ctx context.Context, source string) (*metadata.Video, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
	defer cancel()

	video, err := lookup(ctx, w.source)
	if err != nil {
		w.mpv.logger.Debugf("metadata for %s: %v", w.source, err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if video.Title != "" {
		w.title = video.Title
	}
	w.author = video.Author
}

func (w *mpvWidget) Seek(seconds float64) error {
	w.mu.Lock()
	previous := w.position
	w.beginSeek(seconds)
	w.mu.Unlock()

	if _, err := w.mpv.sendCommand("seek", seconds, "absolute"); err != nil {
		w.mu.Lock()
		w.seeking = false
		w.position = previous
		w.mu.Unlock()
		return err
	}
	return nil
}

// beginSeek moves the mirrored position to the target. time-pos notifications queued
// before the seek are dropped until mpv reports playback-restart.
func (w *mpvWidget) beginSeek(seconds float64) {
	w.position = seconds
	w.seeking = true
	w.seekedAt = time.Now()
}

// settling reports whether a seek is still in flight. A missing playback-restart
// only holds time-pos back for seekSettleTimeout.
func (w *mpvWidget) settling() bool {
	if w.seeking && time.Since(w.seekedAt) > seekSettleTimeout {
		w.seeking = false
	}
	return w.seeking
}

func (w *mpvWidget) Play() error {
	_, err := w.mpv.sendCommand("set_property", "pause", false)
	return err
}

func (w *mpvWidget) Pause() error {
	_, err := w.mpv.sendCommand("set_property", "pause", true)
	return err
}

func (w *mpvWidget) SetRate(rate float64) error {
	_, err := w.mpv.sendCommand("set_property", "speed", rate)
	return err
}

// CurrentTime serves the position mirrored from time-pos notifications and only asks
// mpv directly before the first notification arrives.
func (w *mpvWidget) CurrentTime() (float64, error) {
	w.mu.Lock()
	position, known := w.position, w.positions > 0
	w.mu.Unlock()

	if known {
		return position, nil
	}
	return w.mpv.getFloatProperty("time-pos")
}

func (w *mpvWidget) Duration() (float64, error) {
	w.mu.Lock()
	d, loaded := w.duration, w.loaded
	w.mu.Unlock()

	if d > 0 {
		return d, nil
	}
	if !loaded {
		return 0, ErrNotReady
	}
	return w.mpv.getFloatProperty("duration")
}

func (w *mpvWidget) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.mu.Unlock()

	w.mpv.release(w)
	_, err := w.mpv.sendCommand("stop")
	return err
}

// MediaTarget resolves a source into something mpv can open: video ids become watch URLs,
// http(s) URLs and existing local files pass through.
func MediaTarget(source string) (string, error) {
	s := strings.TrimSpace(source)
	if s == "" {
		return "", fmt.Errorf("empty source")
	}

	if strings.ContainsAny(s, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in source")
	}

	// mpv would read a leading dash as a flag
	if strings.HasPrefix(s, "-") {
		return "", fmt.Errorf("source must not start with '-'")
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return s, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	if exists, _ := filesystem.API().Exists(s); exists {
		return filepath.Clean(s), nil
	}

	if metadata.IsVideoID(s) {
		return metadata.WatchURL(s), nil
	}

	return "", fmt.Errorf("%q is neither a URL, a file nor a video id", s)
}
