package metadata

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,64}$`)

// IsVideoID reports whether s looks like a bare video id.
func IsVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// WatchURL returns the watch page of a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// ExtractID returns the video id of a YouTube watch, short, embed or youtu.be URL.
func ExtractID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch segments[0] {
		case "watch":
			id = u.Query().Get("v")
		case "shorts", "embed", "live", "v":
			if len(segments) > 1 {
				id = segments[1]
			}
		}
	default:
		return "", false
	}

	if !IsVideoID(id) {
		return "", false
	}
	return id, true
}
