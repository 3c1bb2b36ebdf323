// Package metadata looks up the title and author of a video.
//
// The oEmbed endpoint answers for most videos. Videos that disallow embedding are
// described by scraping their watch page instead.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/internal/cache"
	"github.com/solotube/solotube/network"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
	ErrNotAVideo          = errors.New("source is not a video id")
)

var (
	oembedEndpoint = "https://www.youtube.com/oembed"
	pageBase       = "https://youtu.be/"
)

// Video is what is known about a video.
type Video struct {
	ID           string `json:"-"`
	Title        string `json:"title"`
	Author       string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Fetch describes the video with the given id.
func Fetch(ctx context.Context, id string) (*Video, error) {
	video, err := fromOEmbed(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("oembed: %w", err)
		}

		video, err = fromPage(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("watch page: %w", err)
		}
	}

	video.ID = id
	return video, nil
}

// Describe accepts any source (id or YouTube URL) and returns its metadata, cached for
// a week.
func Describe(ctx context.Context, source string) (*Video, error) {
	id, ok := ExtractID(source)
	if !ok {
		if !IsVideoID(source) {
			return nil, ErrNotAVideo
		}
		id = source
	}

	key := cache.Key("video", id)

	var cached Video
	if cache.Read(key, &cached) {
		cached.ID = id
		return &cached, nil
	}

	video, err := Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = cache.Write(key, video)
	return video, nil
}

func get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	return network.Client.Do(req)
}

func fromOEmbed(ctx context.Context, id string) (*Video, error) {
	query := url.Values{}
	query.Set("url", WatchURL(id))
	query.Set("format", "json")

	resp, err := get(ctx, oembedEndpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound:
		return nil, ErrVideoNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrVideoNotEmbeddable
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var video Video
	if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &video, nil
}
