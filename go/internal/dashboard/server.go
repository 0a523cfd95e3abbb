package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mcdev12/dynastydroid/go/clients"
	"github.com/mcdev12/dynastydroid/go/internal/leagues"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/mcdev12/dynastydroid/go/internal/roster"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type LeagueService interface {
	List(ctx context.Context) ([]models.League, error)
	Join(ctx context.Context, leagueID string, opts leagues.JoinOptions) (*models.JoinLeagueResult, error)
	IsDemo() bool
}

type RosterService interface {
	ProjectMyTeam(ctx context.Context, leagueID, botID string) (*roster.TeamView, error)
}

type BotService interface {
	Current(ctx context.Context) *models.Bot
}

// Identity supplies the stored bot id used when a request names none.
type Identity interface {
	BotID() string
}

type Deps struct {
	Leagues  LeagueService
	Rosters  RosterService
	Bots     BotService
	Identity Identity
	Hub      *Hub
	// Rooms backs /ws/chat with chat sessions. Without it browsers only
	// see what reaches the hub from elsewhere, such as the relay.
	Rooms *Rooms
}

// Server is the backend-for-frontend the browser dashboard talks to.
type Server struct {
	deps Deps
	mux  *http.ServeMux
}

func NewServer(deps Deps) *Server {
	if deps.Hub == nil {
		deps.Hub = NewHub(DefaultHubConfig())
	}
	s := &Server{deps: deps, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/leagues", s.handleListLeagues)
	s.mux.HandleFunc("POST /api/leagues/{id}/join", s.handleJoinLeague)
	s.mux.HandleFunc("GET /api/leagues/{id}/roster", s.handleRoster)
	s.mux.HandleFunc("GET /api/bots/current", s.handleCurrentBot)
	s.mux.HandleFunc("GET /ws/chat", s.handleChat)
	s.mux.HandleFunc("GET /ws/stats", s.handleStats)
}

func (s *Server) Hub() *Hub {
	return s.deps.Hub
}

// Handler is the mux wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.mux)
}

// HTTPServer serves Handler over HTTP/1.1 and cleartext HTTP/2.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}

type leaguesResponse struct {
	Leagues []models.League `json:"leagues"`
	Demo    bool            `json:"demo"`
}

func (s *Server) handleListLeagues(w http.ResponseWriter, r *http.Request) {
	all, err := s.deps.Leagues.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	filtered := leagues.Filter(all, q.Get("attribute"), q.Get("search"))
	writeJSON(w, http.StatusOK, leaguesResponse{Leagues: filtered, Demo: s.deps.Leagues.IsDemo()})
}

func (s *Server) handleJoinLeague(w http.ResponseWriter, r *http.Request) {
	leagueID := r.PathValue("id")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	result, err := s.deps.Leagues.Join(r.Context(), leagueID, leagues.JoinOptions{Force: force})
	if err != nil {
		log.Warn().Err(err).Str("league_id", leagueID).Msg("join failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type rosterResponse struct {
	League  *models.League `json:"league"`
	Team    *models.Team   `json:"team"`
	Summary string         `json:"summary,omitempty"`
	Roster  roster.View    `json:"roster"`
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	leagueID := r.PathValue("id")
	botID := r.URL.Query().Get("bot_id")
	if botID == "" && s.deps.Identity != nil {
		botID = s.deps.Identity.BotID()
	}
	if botID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bot_id is required"})
		return
	}

	view, err := s.deps.Rosters.ProjectMyTeam(r.Context(), leagueID, botID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := rosterResponse{
		League: view.League,
		Team:   view.Team,
		Roster: view.Projection.View(),
	}
	if view.Team != nil {
		resp.Summary = view.Team.Summary()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCurrentBot(w http.ResponseWriter, r *http.Request) {
	bot := s.deps.Bots.Current(r.Context())
	if bot == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no bot registered"})
		return
	}
	writeJSON(w, http.StatusOK, bot)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	var attach Attach
	if rooms := s.deps.Rooms; rooms != nil {
		sess, err := rooms.Acquire(r.Context(), roomID)
		if err != nil {
			writeError(w, err)
			return
		}
		attach.Backlog = sess.Messages
		attach.OnClose = func() { rooms.Release(roomID) }
	}

	// Upgrade has already written the failure response
	if err := s.deps.Hub.Upgrade(w, r, roomID, attach); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to upgrade WebSocket connection")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Hub.Stats())
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain and remote failures onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, leagues.ErrLeagueFull), errors.Is(err, leagues.ErrLeagueNotOpen):
		status = http.StatusConflict
	case clients.StatusCode(err) >= 400 && clients.StatusCode(err) < 500:
		status = clients.StatusCode(err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
