package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solotube/solotube/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestMediaTarget(t *testing.T) {
	Convey("Given sources of every kind", t, func() {
		Convey("Video ids become watch URLs", func() {
			target, err := MediaTarget("dQw4w9WgXcQ")
			So(err, ShouldBeNil)
			So(target, ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		})

		Convey("HTTP URLs pass through", func() {
			target, err := MediaTarget(" https://youtu.be/dQw4w9WgXcQ ")
			So(err, ShouldBeNil)
			So(target, ShouldEqual, "https://youtu.be/dQw4w9WgXcQ")
		})

		Convey("Existing files are cleaned", func() {
			So(filesystem.API().MkdirAll("/music", os.ModePerm), ShouldBeNil)
			So(filesystem.API().WriteFile("/music/take five.mp4", []byte{0}, os.ModePerm), ShouldBeNil)
			target, err := MediaTarget("/music/../music/take five.mp4")
			So(err, ShouldBeNil)
			So(target, ShouldEqual, "/music/take five.mp4")
		})

		Convey("Flags, control characters and other schemes are rejected", func() {
			for _, source := range []string{"", "--script=x.lua", "abc\n", "file:///etc/passwd", "not a video"} {
				_, err := MediaTarget(source)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestDecodeResponse(t *testing.T) {
	Convey("Given raw IPC replies", t, func() {
		Convey("Interleaved events are skipped", func() {
			raw := []byte("{\"event\":\"playback-restart\"}\n{\"data\":12.5,\"error\":\"success\"}\n")
			data, err := decodeResponse(raw)
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 12.5)
		})

		Convey("mpv errors are reported as such", func() {
			_, err := decodeResponse([]byte(`{"error":"property unavailable"}`))
			So(err, ShouldHaveSameTypeAs, mpvError(""))
			So(err.Error(), ShouldContainSubstring, "property unavailable")
		})

		Convey("Commands are newline terminated", func() {
			payload, err := encodeCommand([]any{"seek", 10.0, "absolute"})
			So(err, ShouldBeNil)
			So(string(payload), ShouldEqual, "{\"command\":[\"seek\",10,\"absolute\"]}\n")
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given an mpv-like socket", t, func() {
		socket := filepath.Join(t.TempDir(), "mpv.sock")
		listener, err := net.Listen("unix", socket)
		So(err, ShouldBeNil)
		defer listener.Close()

		observed := make(chan string, len(observedProperties))
		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			reader := bufio.NewReader(conn)
			for range observedProperties {
				line, err := reader.ReadBytes('\n')
				if err != nil {
					return
				}
				var cmd ipcCommand
				_ = json.Unmarshal(line, &cmd)
				observed <- cmd.Command[2].(string)
			}

			_, _ = conn.Write([]byte("{\"error\":\"success\",\"request_id\":0}\n"))
			_, _ = conn.Write([]byte("{\"event\":\"property-change\",\"id\":1,\"name\":\"time-pos\",\"data\":3.5}\n{\"event\":\"file-"))
			time.Sleep(20 * time.Millisecond)
			_, _ = conn.Write([]byte("loaded\"}\n"))
			time.Sleep(time.Second)
		}()

		type received struct {
			name string
			data any
		}
		got := make(chan received, 8)
		el := NewEventListener(socket, func(name string, data any) {
			got <- received{name, data}
		})

		So(el.Start(), ShouldBeNil)
		defer el.Stop()

		Convey("It subscribes to every observed property over its own connection", func() {
			for _, name := range observedProperties {
				So(<-observed, ShouldEqual, name)
			}
		})

		Convey("It forwards property changes and events but not replies", func() {
			first := <-got
			So(first.name, ShouldEqual, "time-pos")
			So(first.data, ShouldEqual, 3.5)

			second := <-got
			So(second.name, ShouldEqual, "file-loaded")
			So(el.Listening(), ShouldBeTrue)
		})
	})
}

func TestWidgetSeekPosition(t *testing.T) {
	Convey("Given a widget playing near the end of a loop", t, func() {
		w := &mpvWidget{emit: func(Event) {}, loaded: true}
		w.observe("time-pos", 100.02)

		Convey("When a seek back to the start is issued", func() {
			w.mu.Lock()
			w.beginSeek(50)
			w.mu.Unlock()

			Convey("Then a time-pos sent before the seek does not move the position back", func() {
				w.observe("time-pos", 100.04)
				position, err := w.CurrentTime()
				So(err, ShouldBeNil)
				So(position, ShouldEqual, 50)
			})

			Convey("Then positions are mirrored again once playback restarts", func() {
				w.observe("time-pos", 100.04)
				w.observe("playback-restart", map[string]any{"event": "playback-restart"})
				w.observe("time-pos", 50.01)

				position, _ := w.CurrentTime()
				So(position, ShouldEqual, 50.01)
			})

			Convey("Then a lost playback-restart holds positions back only briefly", func() {
				w.mu.Lock()
				w.seekedAt = time.Now().Add(-2 * seekSettleTimeout)
				w.mu.Unlock()

				w.observe("time-pos", 50.5)
				position, _ := w.CurrentTime()
				So(position, ShouldEqual, 50.5)
			})
		})
	})
}
