// Package sharelink encodes committed loops as URLs and reads them back.
//
// A link carries the source id and the loop bounds in absolute seconds:
//
//	https://solotube.app/?v=abc123&start=50&end=100
//
// Plain YouTube URLs and bare video ids are accepted too; they carry no bounds.
package sharelink

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/solotube/solotube/metadata"
	"github.com/solotube/solotube/playback"
)

var ErrInvalid = errors.New("invalid link")

var validate = validator.New()

// Link is a parsed share link.
type Link struct {
	SourceID string `validate:"required"`
	Start    float64
	End      float64

	// HasBounds is set when the link carried start or end values, valid or not.
	HasBounds bool
}

type bounds struct {
	Start float64 `validate:"gte=0"`
	End   float64 `validate:"gtfield=Start"`
}

// New creates a link for a committed loop.
func New(sourceID string, b playback.Bounds) Link {
	return Link{SourceID: sourceID, Start: b.Start, End: b.End, HasBounds: true}
}

// Parse reads a share link, a YouTube URL or a bare video id. Malformed start or end values
// do not fail parsing; they fail Validate and fall back in Bounds.
func Parse(raw string) (Link, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Link{}, fmt.Errorf("%w: empty", ErrInvalid)
	}

	if !strings.Contains(raw, "://") {
		if metadata.IsVideoID(raw) {
			return Link{SourceID: raw}, nil
		}
		return Link{}, fmt.Errorf("%w: %q is not a video id", ErrInvalid, raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	query := u.Query()
	link := Link{SourceID: query.Get("v")}
	if link.SourceID == "" {
		id, ok := metadata.ExtractID(raw)
		if !ok {
			return Link{}, fmt.Errorf("%w: no video in %s", ErrInvalid, raw)
		}
		link.SourceID = id
	}

	start, end := query.Get("start"), query.Get("end")
	if start != "" || end != "" {
		link.HasBounds = true
		link.Start = parseSeconds(start)
		link.End = parseSeconds(end)
	}

	return link, nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Validate checks the source and, if present, that 0 ≤ start < end.
func (l Link) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}
	if !l.HasBounds {
		return nil
	}
	if math.IsNaN(l.Start) || math.IsNaN(l.End) {
		return fmt.Errorf("%w: start and end must be numbers", ErrInvalid)
	}
	if err := validate.Struct(bounds{Start: l.Start, End: l.End}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}
	return nil
}

func describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "gtfield":
			messages = append(messages, fmt.Sprintf("%s must be after %s", field, strings.ToLower(e.Param())))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s", field, e.Tag()))
		}
	}
	return strings.Join(messages, ", ")
}

// Bounds returns the link's loop bounds for a source of the given duration. Missing, invalid
// or out of range bounds fall back to the whole duration; ok reports whether the link's own
// bounds were used.
func (l Link) Bounds(duration float64) (b playback.Bounds, ok bool) {
	full := playback.Bounds{Start: 0, End: duration}

	if !l.HasBounds || l.Validate() != nil {
		return full, false
	}

	b = playback.Bounds{Start: l.Start, End: l.End}
	if !b.Within(duration) {
		return full, false
	}

	return b.Clamp(duration), true
}

// String renders the link against base.
func (l Link) String(base string) string {
	query := url.Values{}
	query.Set("v", l.SourceID)

	encoded := query.Encode()
	if l.HasBounds {
		encoded += "&start=" + formatSeconds(l.Start) + "&end=" + formatSeconds(l.End)
	}

	if base == "" {
		base = "/"
	}
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}

	return base + separator + encoded
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
