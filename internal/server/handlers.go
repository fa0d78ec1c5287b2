package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/threadforge/threadforge/internal/core/domain"
	apperrors "github.com/threadforge/threadforge/internal/core/errors"
	"github.com/threadforge/threadforge/internal/core/generate"
	"github.com/threadforge/threadforge/internal/platform/observability"
)

const maxRequestBody = 1 << 20 // 1 MiB

// generateRequest carries the input text (or a URL to ingest) with the
// generation options flattened into the same JSON object.
type generateRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	domain.Options
}

type generateResponse struct {
	ID string `json:"id,omitempty"`
	*domain.ThreadResult
}

type historyItem struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	TweetCount int    `json:"tweet_count"`
	Language   string `json:"language"`
	CreatedAt  string `json:"created_at"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, &domain.GenerationError{Message: "use POST", Code: "method_not_allowed"})

		return
	}

	if !s.allowRequest(getClientIP(r)) {
		observability.RequestsRejected.WithLabelValues("rate_limited").Inc()
		s.writeError(w, http.StatusTooManyRequests, &domain.GenerationError{Message: "too many requests", Code: "rate_limited"})

		return
	}

	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, &domain.GenerationError{Message: "malformed request body", Code: "bad_request"})

		return
	}

	text := req.Text

	if text == "" && req.URL != "" {
		if s.fetcher == nil {
			s.writeError(w, http.StatusBadRequest, &domain.GenerationError{Message: "url ingestion is disabled", Code: "ingest_disabled"})

			return
		}

		article, err := s.fetcher.FetchArticle(r.Context(), req.URL)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", req.URL).Msg("article ingestion failed")
			s.writeError(w, http.StatusBadGateway, &domain.GenerationError{Message: "could not fetch article", Code: "ingest_failed"})

			return
		}

		text = article.Prose()
	}

	text, err := SanitizeInput(text, s.cfg.MaxInputChars)
	if err != nil {
		observability.RequestsRejected.WithLabelValues("invalid_input").Inc()
		s.writeGenerateError(w, err)

		return
	}

	genCtx, cancel := context.WithTimeout(r.Context(), s.cfg.GenerateTimeout)
	defer cancel()

	result, err := s.orchestrator.Generate(genCtx, text, req.Options)
	if err != nil {
		s.writeGenerateError(w, err)

		return
	}

	resp := generateResponse{ThreadResult: result}

	if s.database != nil {
		id, saveErr := s.database.SaveThread(r.Context(), text, req.Options, result)
		if saveErr != nil {
			s.logger.Error().Err(saveErr).Msg("failed to persist thread")
		} else {
			resp.ID = id
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, &domain.GenerationError{Message: "use GET", Code: "method_not_allowed"})

		return
	}

	if s.database == nil {
		s.writeError(w, http.StatusServiceUnavailable, &domain.GenerationError{Message: "history storage is disabled", Code: "storage_disabled"})

		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := s.database.ListRecentThreads(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list threads")
		s.writeError(w, http.StatusInternalServerError, &domain.GenerationError{Message: "could not load history", Code: "storage_failed"})

		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, historyItem{
			ID:         rec.ID,
			Source:     rec.Source,
			TweetCount: rec.TweetCount,
			Language:   rec.Language,
			CreatedAt:  rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"threads": items})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, &domain.GenerationError{Message: "use GET", Code: "method_not_allowed"})

		return
	}

	if s.database == nil {
		s.writeError(w, http.StatusServiceUnavailable, &domain.GenerationError{Message: "history storage is disabled", Code: "storage_disabled"})

		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if id == "" {
		s.handleHistoryList(w, r)

		return
	}

	rec, err := s.database.GetThread(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, &domain.GenerationError{Message: "thread not found", Code: "not_found"})

			return
		}

		s.logger.Error().Err(err).Str("thread_id", id).Msg("failed to load thread")
		s.writeError(w, http.StatusInternalServerError, &domain.GenerationError{Message: "could not load thread", Code: "storage_failed"})

		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{ID: rec.ID, ThreadResult: &rec.Result})
}

// writeGenerateError maps pipeline sentinels to HTTP statuses.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	genErr := generate.AsGenerationError(err)

	status := http.StatusInternalServerError

	switch genErr.Code {
	case "empty_input", "input_too_long", "segmentation_exhausted":
		status = http.StatusBadRequest
	case "all_backends_failed":
		status = http.StatusBadGateway
	}

	if errors.Is(err, apperrors.ErrRateLimited) {
		status = http.StatusTooManyRequests
	}

	s.writeError(w, status, genErr)
}

func (s *Server) writeError(w http.ResponseWriter, status int, genErr *domain.GenerationError) {
	s.writeJSON(w, status, genErr)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
