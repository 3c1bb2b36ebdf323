package player

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command []any `json:"command"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
type ipcResponse struct {
	Data  any    `json:"data"`
	Error string `json:"error"`
}

const (
	maxRetries   = 3
	retryDelay   = 50 * time.Millisecond
	dialTimeout  = 250 * time.Millisecond
	readDeadline = 1 * time.Second
	readBufSize  = 4096
)

// sendCommand sends a JSON-IPC command to mpv, retrying transient connection errors.
func (m *MPV) sendCommand(command ...any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(m.socketPath, command)
		if err == nil {
			return result, nil
		}
		if _, ok := err.(mpvError); ok {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command %v failed after %d attempts: %w", command[0], maxRetries, lastErr)
}

// mpvError is an error reported by mpv itself rather than by the transport.
type mpvError string

func (e mpvError) Error() string {
	return "mpv error: " + string(e)
}

// doSendCommand performs a single IPC command attempt on a fresh connection.
func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := encodeCommand(command)
	if err != nil {
		return nil, err
	}

	if _, err = conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	buf := make([]byte, readBufSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return decodeResponse(buf[:n])
}

// encodeCommand renders a newline terminated command, as mpv requires.
func encodeCommand(command []any) ([]byte, error) {
	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(payload, '\n'), nil
}

// decodeResponse parses the first reply line. Event lines that mpv may interleave
// before the reply are skipped.
func decodeResponse(raw []byte) (any, error) {
	for _, line := range splitLines(raw) {
		var probe map[string]any
		if err := json.Unmarshal(line, &probe); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		if _, isEvent := probe["event"]; isEvent {
			continue
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, mpvError(resp.Error)
		}
		return resp.Data, nil
	}

	return nil, fmt.Errorf("no reply in %d bytes", len(raw))
}

func splitLines(raw []byte) [][]byte {
	var lines [][]byte
	for _, line := range bytes.Split(raw, []byte{'\n'}) {
		if line = bytes.TrimSpace(line); len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}
