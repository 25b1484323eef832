package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
)

// ErrTranscriptUnavailable is returned when a video has no English caption
// track, neither human-authored nor auto-generated.
var ErrTranscriptUnavailable = errors.New("no English captions available")

// FetchError wraps a network failure while retrieving caption data.
// StatusCode is zero when the request never produced a response.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: bad status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves caption tracks for a video and reduces them to plain
// text. It talks to YouTube's innertube player endpoint; BaseURL is
// configurable so tests can point it at a local server.
type Fetcher struct {
	BaseURL string
	client  *http.Client
}

// NewFetcher creates a new transcript fetcher.
func NewFetcher(baseURL string) *Fetcher {
	return &Fetcher{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// playerRequest is the innertube player request payload.
type playerRequest struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

// captionTrack describes one caption track in the player response.
// Kind is "asr" for auto-generated tracks and empty for human-authored ones.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// playerResponse is the subset of the innertube player response we consume.
type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// json3Payload is YouTube's structured caption format:
// {"events":[{"segs":[{"utf8":"text"}]}]}. Events without segs are
// metadata/formatting and carry no transcript text.
type json3Payload struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch retrieves the English transcript for a video as plain text.
// Human-authored English tracks are preferred over auto-generated ones.
// It returns ErrTranscriptUnavailable when no English track exists and a
// *FetchError when the network retrieval fails.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "fetching transcript", "video_id", videoID)

	tracks, err := f.listCaptionTracks(ctx, videoID)
	if err != nil {
		return "", err
	}

	track := selectEnglishTrack(tracks)
	if track == nil {
		logger.WarnContext(ctx, "no English caption track", "video_id", videoID, "tracks", len(tracks))
		return "", ErrTranscriptUnavailable
	}

	payload, err := f.downloadTrack(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}

	text, ok := parseJSON3(payload)
	if !ok {
		// Not JSON3 (e.g. the track only offers VTT); return the raw payload.
		logger.WarnContext(ctx, "caption payload is not JSON3, returning raw text", "video_id", videoID)
		return string(payload), nil
	}

	logger.InfoContext(ctx, "transcript fetched", "video_id", videoID, "chars", len(text))
	return text, nil
}

// listCaptionTracks queries the player endpoint for the video's caption tracks.
func (f *Fetcher) listCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	var payload playerRequest
	payload.Context.Client.ClientName = "WEB"
	payload.Context.Client.ClientVersion = "2.20240726.00.00"
	payload.VideoID = videoID

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player request: %w", err)
	}

	reqURL := f.BaseURL + "/youtubei/v1/player"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "list caption tracks", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Op: "list caption tracks", StatusCode: resp.StatusCode}
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("failed to decode player response: %w", err)
	}

	return player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// selectEnglishTrack picks the caption track to download: the first
// human-authored English track if any, otherwise the first auto-generated
// English track, otherwise nil.
func selectEnglishTrack(tracks []captionTrack) *captionTrack {
	var auto *captionTrack
	for i := range tracks {
		track := &tracks[i]
		if !isEnglish(track.LanguageCode) {
			continue
		}
		if track.Kind != "asr" {
			return track
		}
		if auto == nil {
			auto = track
		}
	}
	return auto
}

func isEnglish(languageCode string) bool {
	return languageCode == "en" || strings.HasPrefix(languageCode, "en-")
}

// downloadTrack fetches the caption payload, requesting the JSON3 format.
func (f *Fetcher) downloadTrack(ctx context.Context, trackURL string) ([]byte, error) {
	sep := "?"
	if strings.Contains(trackURL, "?") {
		sep = "&"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL+sep+"fmt=json3", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "download captions", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Op: "download captions", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: "download captions", Err: err}
	}

	return body, nil
}

// parseJSON3 reduces a JSON3 caption payload to plain text by concatenating
// the literal text segments and dropping pure line-break markers.
// The second return value is false when the payload is not JSON3.
func parseJSON3(payload []byte) (string, bool) {
	var data json3Payload
	if err := json.Unmarshal(payload, &data); err != nil {
		return "", false
	}
	if len(data.Events) == 0 {
		return "", false
	}

	var builder strings.Builder
	for _, event := range data.Events {
		for _, seg := range event.Segs {
			if seg.UTF8 != "" && seg.UTF8 != "\n" {
				builder.WriteString(seg.UTF8)
			}
		}
	}
	return builder.String(), true
}

// VideoIDFromURL extracts a video identifier from a YouTube watch URL.
// It understands watch?v=, youtu.be/, shorts/ and embed/ forms.
func VideoIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}

	path := strings.Trim(u.Path, "/")
	if strings.EqualFold(u.Hostname(), "youtu.be") && path != "" {
		return path, nil
	}
	for _, prefix := range []string{"shorts/", "embed/"} {
		if rest := strings.TrimPrefix(path, prefix); rest != path && rest != "" {
			return rest, nil
		}
	}

	return "", fmt.Errorf("could not extract video id from %q", raw)
}
