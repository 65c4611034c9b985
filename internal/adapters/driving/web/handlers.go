package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/services"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// keepAliveProbe is the message used to warm the pipeline.
const keepAliveProbe = "what is agility"

// maxSearchLimit caps k on /api/search.
const maxSearchLimit = 20

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message"`
	BotReady *bool  `json:"bot_ready,omitempty"`
}

type keepAliveResponse struct {
	Status    string `json:"status"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
}

type matchResponse struct {
	Position int      `json:"position"`
	Score    float64  `json:"score"`
	Content  string   `json:"content"`
	Events   []string `json:"events,omitempty"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Matches []matchResponse `json:"matches"`
}

func (s *Server) handleIndex(c echo.Context) error {
	h := c.Response().Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	return c.JSON(http.StatusOK, statusResponse{Message: "Sports Committee Chatbot API is running!"})
}

func (s *Server) handleHealth(c echo.Context) error {
	ready := s.ready()
	return c.JSON(http.StatusOK, statusResponse{
		Status:   "ok",
		Message:  "SPIT SportsCom Bot is running!",
		BotReady: &ready,
	})
}

func (s *Server) ready() bool {
	if s.knowledge == nil {
		return false
	}
	stats, err := s.knowledge.Stats()
	return err == nil && stats.Chunks > 0
}

// handleChat always answers 200 with a response body, matching the chat UI's
// expectations. Malformed bodies get the generic error reply.
func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("chat: bad request body: %v", err)
		return c.JSON(http.StatusOK, chatResponse{Response: services.ErrorReply})
	}

	reply, err := s.chat.Ask(c.Request().Context(), req.Message)
	if err != nil {
		logger.Error("chat: %v", err)
		if reply.Text == "" {
			reply.Text = services.ErrorReply
		}
	}
	return c.JSON(http.StatusOK, chatResponse{Response: reply.Text})
}

func (s *Server) handleKeepAlive(c echo.Context) error {
	reply, err := s.chat.Ask(c.Request().Context(), keepAliveProbe)
	if err != nil {
		logger.Error("keep-alive failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Keep-alive failed: " + err.Error()})
	}
	return c.JSON(http.StatusOK, keepAliveResponse{
		Status:    "alive",
		Kind:      reply.Kind.String(),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	k := 0
	if raw := c.QueryParam("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "k must be a non-negative integer")
		}
		k = min(n, maxSearchLimit)
	}

	matches, err := s.retrieval.Search(c.Request().Context(), query, k)
	if err != nil {
		return err
	}

	resp := searchResponse{Query: query, Matches: make([]matchResponse, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, toMatchResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

func toMatchResponse(m domain.Match) matchResponse {
	out := matchResponse{
		Position: m.Chunk.Position,
		Score:    m.Score,
		Content:  m.Chunk.Content,
	}
	for _, e := range m.Chunk.Events {
		out.Events = append(out.Events, string(e))
	}
	return out
}
