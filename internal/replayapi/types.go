package replayapi

import "time"

// Game and Replay are consumed, not owned, by the client: payloads are passed
// through to the view layer as the server shaped them.
type Game struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReplayCount int    `json:"replay_count"`
}

type Replay struct {
	ID           string    `json:"id"`
	GameID       string    `json:"game_id"`
	Title        string    `json:"title,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
