package replayapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fckoffmw/replay-service/internal/gateway"
)

const defaultListLimit = 100

type ReplayService struct {
	gateway *gateway.Gateway
}

func NewReplayService(gw *gateway.Gateway) *ReplayService {
	return &ReplayService{gateway: gw}
}

type UploadInput struct {
	FileName string
	File     io.Reader
	Title    string
	Comment  string
}

type UpdateInput struct {
	Title   *string
	Comment *string
}

func (s *ReplayService) List(ctx context.Context, gameID string, limit int) ([]Replay, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	path := fmt.Sprintf("/games/%s/replays?limit=%s", url.PathEscape(gameID), strconv.Itoa(limit))

	var replays []Replay
	err := s.gateway.Do(ctx, http.MethodGet, path, nil, &replays)
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	return replays, nil
}

func (s *ReplayService) Get(ctx context.Context, replayID string) (Replay, error) {
	var replay Replay
	err := s.gateway.Do(ctx, http.MethodGet, replayPath(replayID), nil, &replay)
	if err != nil {
		return Replay{}, fmt.Errorf("get replay: %w", err)
	}
	return replay, nil
}

func (s *ReplayService) Upload(ctx context.Context, gameID string, input UploadInput) (Replay, error) {
	form := gateway.MultipartForm{
		Files: []gateway.FormFile{{
			Param:  "file",
			Name:   input.FileName,
			Reader: input.File,
		}},
		Fields: map[string]string{
			"title":   input.Title,
			"comment": input.Comment,
		},
	}

	path := fmt.Sprintf("/games/%s/replays", url.PathEscape(gameID))

	var replay Replay
	err := s.gateway.DoMultipart(ctx, http.MethodPost, path, form, &replay)
	if err != nil {
		return Replay{}, fmt.Errorf("upload replay: %w", err)
	}
	return replay, nil
}

// Update sends only the fields that are set.
func (s *ReplayService) Update(ctx context.Context, replayID string, input UpdateInput) error {
	fields := make(map[string]string, 2)
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Comment != nil {
		fields["comment"] = *input.Comment
	}

	err := s.gateway.DoMultipart(ctx, http.MethodPut, replayPath(replayID), gateway.MultipartForm{Fields: fields}, nil)
	if err != nil {
		return fmt.Errorf("update replay: %w", err)
	}
	return nil
}

func (s *ReplayService) Delete(ctx context.Context, replayID string) error {
	err := s.gateway.Do(ctx, http.MethodDelete, replayPath(replayID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete replay: %w", err)
	}
	return nil
}

func replayPath(replayID string) string {
	return "/replays/" + url.PathEscape(replayID)
}
