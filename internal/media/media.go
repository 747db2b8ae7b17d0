package media

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Media elements and download links issue their own requests and cannot carry
// an Authorization header, so for this one endpoint the credential travels as
// a query parameter. URL-embedded credentials leak more easily (history,
// referrers, server logs) than header-embedded ones; this path must never be
// reused for JSON API calls.
type Adapter struct {
	baseURL string
}

func NewAdapter(baseURL string) Adapter {
	return Adapter{baseURL: strings.TrimRight(baseURL, "/")}
}

// PlaybackURL returns the media-fetch URL served inline for playback.
func (a Adapter) PlaybackURL(replayID, credential string) string {
	return a.fileURL(replayID, credential, false)
}

// DownloadURL returns the media-fetch URL served as an attachment.
func (a Adapter) DownloadURL(replayID, credential string) string {
	return a.fileURL(replayID, credential, true)
}

func (a Adapter) fileURL(replayID, credential string, download bool) string {
	query := url.Values{}
	query.Set("token", credential)
	if download {
		query.Set("download", "true")
	}

	return fmt.Sprintf("%s/replays/%s/file?%s", a.baseURL, url.PathEscape(replayID), query.Encode())
}

var contentTypes = map[string]string{
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "video/ogg",
	"ogv":  "video/ogg",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"mkv":  "video/x-matroska",
	"m4v":  "video/x-m4v",
}

// ContentType maps a filename to its video MIME type by the final extension
// segment, case-insensitively. Unrecognized extensions fall back to
// video/mp4.
func ContentType(filename string) string {
	if contentType, ok := contentTypes[extension(filename)]; ok {
		return contentType
	}
	return "video/mp4"
}

// IsPlayable reports whether the filename carries one of the known video
// extensions, gating whether playback is offered instead of download only.
func IsPlayable(filename string) bool {
	_, ok := contentTypes[extension(filename)]
	return ok
}

func extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
}
