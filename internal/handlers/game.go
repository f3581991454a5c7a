package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/fifteen-days/internal/logger"
	"github.com/jwebster45206/fifteen-days/pkg/game"
	"github.com/jwebster45206/fifteen-days/pkg/level"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
	"github.com/jwebster45206/fifteen-days/pkg/state"
	"github.com/jwebster45206/fifteen-days/pkg/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateGameRequest is the optional body of POST /v1/games.
type CreateGameRequest struct {
	Locale string `json:"locale,omitempty"`
}

type ChoiceRequest struct {
	Code string `json:"code"`
}

// GameResponse describes a game between turns.
type GameResponse struct {
	ID             uuid.UUID      `json:"id"`
	Locale         string         `json:"locale"`
	Day            int            `json:"day"`
	DayDescription string         `json:"day_description"`
	Chosen         string         `json:"chosen,omitempty"`
	Status         map[string]any `json:"status"`
	GameOver       bool           `json:"game_over"`
	Ending         string         `json:"ending,omitempty"`
	EndingText     string         `json:"ending_text,omitempty"`
}

type LevelResponse struct {
	Day            int            `json:"day"`
	DayDescription string         `json:"day_description"`
	Narrative      string         `json:"narrative"`
	Options        []level.Option `json:"options"`
	Complete       bool           `json:"complete"`
}

type ChoiceResponse struct {
	Turn game.Turn    `json:"turn"`
	Game GameResponse `json:"game"`
}

type AdvanceResponse struct {
	Transition string       `json:"transition,omitempty"`
	Game       GameResponse `json:"game"`
}

type JournalResponse struct {
	Entries []state.JournalEntry `json:"entries"`
}

// GameHandler serves play sessions. Each request restores a game manager
// from the session store, acts on it and saves it back. Requests that
// modify a game hold its lock for the whole cycle.
type GameHandler struct {
	sources map[locale.Locale]level.Source
	storage storage.Storage
	locks   *gameLocks
	logger  *slog.Logger
}

func NewGameHandler(sources map[locale.Locale]level.Source, storage storage.Storage, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		sources: sources,
		storage: storage,
		locks:   newGameLocks(),
		logger:  logger,
	}
}

// ServeHTTP routes game requests.
// Routes:
// POST   /v1/games              - Start a new game
// GET    /v1/games/{id}         - Status snapshot
// DELETE /v1/games/{id}         - Delete a game
// GET    /v1/games/{id}/level   - Today's narrative and options
// POST   /v1/games/{id}/choice  - Take an option for today
// POST   /v1/games/{id}/advance - Move to the next day
// GET    /v1/games/{id}/journal - Texts shown so far
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/games"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idStr, action, _ := strings.Cut(path, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid game ID", "id", idStr, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case action == "level" && r.Method == http.MethodGet:
		h.handleLevel(w, r, id)
	case action == "choice" && r.Method == http.MethodPost:
		h.handleChoice(w, r, id)
	case action == "advance" && r.Method == http.MethodPost:
		h.handleAdvance(w, r, id)
	case action == "journal" && r.Method == http.MethodGet:
		h.handleJournal(w, r, id)
	case action == "" || action == "level" || action == "choice" || action == "advance" || action == "journal":
		h.logger.Warn("Method not allowed for game endpoint", "method", r.Method, "action", action)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		h.writeError(w, http.StatusNotFound, "Unknown game endpoint")
	}
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	loc := locale.Parse(req.Locale)
	src, ok := h.sources[loc]
	if !ok {
		h.logger.Warn("No content for locale", "locale", loc)
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("No content available for locale %q", loc))
		return
	}

	sess := state.NewSession(loc.String())
	m := game.NewManager(src, loc, h.logger)
	m.Save(sess)
	if err := h.storage.SaveSession(r.Context(), sess); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create game")
		return
	}

	var entries []state.JournalEntry
	if intro, ok := m.Intro(); ok {
		entries = append(entries, entry(m.Day(), state.EntryIntro, intro))
	}
	if lvl, ok := m.CurrentLevel(); ok {
		entries = append(entries, entry(m.Day(), state.EntryNarrative, lvl.Narrative()))
	}
	h.appendJournal(r.Context(), sess.ID, entries)

	logger.WithGame(h.logger, sess.ID).Info("Created game", "locale", loc)
	h.writeJSON(w, http.StatusCreated, h.gameResponse(sess.ID, m))
}

func (h *GameHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	_, m, ok := h.load(w, r, id)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.gameResponse(id, m))
}

func (h *GameHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	unlock := h.locks.lock(id)
	defer unlock()

	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		logger.WithGame(h.logger, id).Error("Failed to delete session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to delete game")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleLevel(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	_, m, ok := h.load(w, r, id)
	if !ok {
		return
	}
	if m.IsGameOver() {
		h.writeError(w, http.StatusConflict, "Game is over")
		return
	}
	lvl, ok := m.CurrentLevel()
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("No level for day %d", m.Day()))
		return
	}
	h.writeJSON(w, http.StatusOK, LevelResponse{
		Day:            lvl.Day(),
		DayDescription: m.DayDescription(),
		Narrative:      lvl.Narrative(),
		Options:        lvl.Options(),
		Complete:       lvl.IsComplete(),
	})
}

func (h *GameHandler) handleChoice(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	code, err := level.ParseCode(req.Code)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "code must be one of A, B, C")
		return
	}

	unlock := h.locks.lock(id)
	defer unlock()

	sess, m, ok := h.load(w, r, id)
	if !ok {
		return
	}

	turn, err := m.Choose(code)
	switch {
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrAlreadyChosen):
		h.writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, game.ErrNoLevel):
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, level.ErrInvalidOption):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.WithGame(h.logger, id).Error("Failed to handle choice", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to handle choice")
		return
	}

	if turn.Allowed {
		m.Save(sess)
		if err := h.storage.SaveSession(r.Context(), sess); err != nil {
			logger.WithGame(h.logger, id).Error("Failed to save session", "error", err)
			h.writeError(w, http.StatusInternalServerError, "Failed to save game")
			return
		}
		entries := []state.JournalEntry{
			entry(m.Day(), state.EntryResult, turn.Result),
		}
		if turn.Ending != game.EndingNone {
			_, text := m.Ending()
			entries = append(entries, entry(m.Day(), state.EntryEnding, text))
		}
		h.appendJournal(r.Context(), id, entries)
	}

	h.writeJSON(w, http.StatusOK, ChoiceResponse{Turn: turn, Game: h.gameResponse(id, m)})
}

func (h *GameHandler) handleAdvance(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	unlock := h.locks.lock(id)
	defer unlock()

	sess, m, ok := h.load(w, r, id)
	if !ok {
		return
	}
	if m.IsGameOver() {
		h.writeError(w, http.StatusConflict, game.ErrGameOver.Error())
		return
	}
	if _, ok := m.CurrentLevel(); ok && m.Chosen() == "" {
		h.writeError(w, http.StatusConflict, "Choose an option before advancing")
		return
	}

	prev := m.Day()
	m.AdvanceDay()
	m.Save(sess)
	if err := h.storage.SaveSession(r.Context(), sess); err != nil {
		logger.WithGame(h.logger, id).Error("Failed to save session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save game")
		return
	}

	var resp AdvanceResponse
	var entries []state.JournalEntry
	if text, ok := m.Transition(prev); ok {
		resp.Transition = text
		entries = append(entries, entry(prev, state.EntryTransition, text))
	}
	if m.IsGameOver() {
		_, text := m.Ending()
		entries = append(entries, entry(prev, state.EntryEnding, text))
	} else if lvl, ok := m.CurrentLevel(); ok {
		entries = append(entries, entry(m.Day(), state.EntryNarrative, lvl.Narrative()))
	}
	h.appendJournal(r.Context(), id, entries)

	resp.Game = h.gameResponse(id, m)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *GameHandler) handleJournal(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if _, _, ok := h.load(w, r, id); !ok {
		return
	}
	entries, err := h.storage.Journal(r.Context(), id)
	if err != nil {
		logger.WithGame(h.logger, id).Error("Failed to load journal", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}
	if entries == nil {
		entries = []state.JournalEntry{}
	}
	h.writeJSON(w, http.StatusOK, JournalResponse{Entries: entries})
}

// load restores the game for id. On failure it writes the response and
// returns false.
func (h *GameHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*state.Session, *game.Manager, bool) {
	sess, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		logger.WithGame(h.logger, id).Error("Failed to load session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load game")
		return nil, nil, false
	}
	if sess == nil {
		h.writeError(w, http.StatusNotFound, "Game not found")
		return nil, nil, false
	}

	loc := locale.Parse(sess.Locale)
	src, ok := h.sources[loc]
	if !ok {
		logger.WithGame(h.logger, id).Error("No content for session locale", "locale", sess.Locale)
		h.writeError(w, http.StatusInternalServerError, "No content for game locale")
		return nil, nil, false
	}
	m := game.NewManager(src, loc, logger.WithGame(h.logger, id))
	if err := m.Restore(sess); err != nil {
		logger.WithGame(h.logger, id).Error("Failed to restore session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to restore game")
		return nil, nil, false
	}
	return sess, m, true
}

func (h *GameHandler) gameResponse(id uuid.UUID, m *game.Manager) GameResponse {
	resp := GameResponse{
		ID:             id,
		Locale:         m.Locale().String(),
		Day:            m.Day(),
		DayDescription: m.DayDescription(),
		Chosen:         string(m.Chosen()),
		Status:         m.StatusSnapshot(),
		GameOver:       m.IsGameOver(),
	}
	if ending, text := m.Ending(); ending != game.EndingNone {
		resp.Ending = string(ending)
		resp.EndingText = text
	}
	return resp
}

func (h *GameHandler) appendJournal(ctx context.Context, id uuid.UUID, entries []state.JournalEntry) {
	if len(entries) == 0 {
		return
	}
	if err := h.storage.AppendJournal(ctx, id, entries...); err != nil {
		// The game itself is saved; a lost journal line is only logged.
		logger.WithGame(h.logger, id).Warn("Failed to append journal", "error", err)
	}
}

func (h *GameHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *GameHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

func entry(day int, kind, text string) state.JournalEntry {
	return state.JournalEntry{Day: day, Kind: kind, Text: text, At: time.Now()}
}
