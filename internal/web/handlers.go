package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/game"
	"github.com/user/lifequest/internal/interfaces"
	"github.com/user/lifequest/internal/types"
	"go.uber.org/zap"
)

// SessionHeader carries the session id on admin requests
const SessionHeader = "X-Session-ID"

const maxBodyBytes = 1 << 20

// Handler serves the guild API
type Handler struct {
	manager  interfaces.GuildManager
	sessions *SessionManager
	logger   *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(manager interfaces.GuildManager, sessions *SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		manager:  manager,
		sessions: sessions,
		logger:   logger,
	}
}

// Router builds the chi router with every route mounted
func (h *Handler) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", h.health)
	router.Get("/leaderboard", h.leaderboard)
	router.Get("/plates", h.plates)

	router.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Get("/", h.listSessions)
		r.Delete("/{sessionID}", h.deleteSession)
		r.Get("/{sessionID}/qr", h.sessionQR)
	})

	router.Route("/characters/{id}", func(r chi.Router) {
		r.Get("/", h.status)
		r.Get("/history", h.history)
		r.Post("/weight", h.logWeight)

		r.Get("/habits", h.habits)
		r.Post("/habits/{habit}/complete", h.completeHabit)
		r.Get("/tasks", h.tasks)
		r.Post("/tasks/{index}/complete", h.completeTask)

		r.Get("/shop", h.shop)
		r.Post("/shop/{item}/purchase", h.purchase)
		r.Get("/inventory", h.inventory)
		r.Post("/inventory/{index}/redeem", h.redeem)

		r.Get("/skills", h.skills)
		r.Post("/skills/master", h.masterSkill)

		r.Route("/workout", func(r chi.Router) {
			r.Get("/", h.workout)
			r.Post("/import", h.importWorkout)
			r.Post("/start", h.startWorkout)
			r.Post("/set", h.completeSet)
			r.Post("/submit", h.submitExercise)
			r.Post("/claim", h.claimWorkout)
			r.Post("/abort", h.abortWorkout)
		})
	})

	router.Route("/admin/characters/{target}", func(r chi.Router) {
		r.Post("/tasks", h.assignTask)
		r.Post("/shop", h.addShopItem)
		r.Delete("/shop/{item}", h.removeShopItem)
		r.Post("/habits", h.addHabit)
		r.Delete("/habits/{habit}", h.removeHabit)
		r.Post("/skills", h.addSkill)
	})

	return router
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail writes a command error. Storage failures are logged, the rest are
// normal answers.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeInternalError(w)
		return
	}
	writeJSON(w, status, errorBody(err))
}

// param returns an unescaped URL parameter
func param(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

func indexParam(r *http.Request, name string) (int, error) {
	index, err := strconv.Atoi(param(r, name))
	if err != nil {
		return 0, apperrors.NewValidation(name, "must be an integer")
	}
	return index, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return apperrors.NewValidation("body", "invalid JSON: %v", err)
	}
	return nil
}

// actor resolves the session named in the request header
func (h *Handler) actor(r *http.Request) (types.Actor, error) {
	sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
	if sessionID == "" {
		return types.Actor{}, apperrors.ErrNotPermitted.WithReason("missing %s header", SessionHeader)
	}
	session, ok, err := h.sessions.GetSession(sessionID)
	if err != nil {
		return types.Actor{}, err
	}
	if !ok {
		return types.Actor{}, apperrors.NewNotFound("session", sessionID)
	}
	return session.Actor(), nil
}

type createSessionRequest struct {
	CharacterID string `json:"character_id"`
}

type sessionResponse struct {
	Session    SessionInfo       `json:"session"`
	PairingURL string            `json:"pairing_url"`
	Daily      types.DailyReport `json:"daily"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	start, err := h.manager.BeginSession(r.Context(), req.CharacterID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	session, err := h.sessions.CreateSession(start.Actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Session:    session,
		PairingURL: h.sessions.PairingURL(session),
		Daily:      start.Daily,
	})
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListSessions()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := param(r, "sessionID")
	ok, err := h.sessions.DeleteSession(sessionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		h.fail(w, r, apperrors.NewNotFound("session", sessionID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": sessionID})
}

func (h *Handler) sessionQR(w http.ResponseWriter, r *http.Request) {
	sessionID := param(r, "sessionID")
	session, ok, err := h.sessions.GetSession(sessionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		h.fail(w, r, apperrors.NewNotFound("session", sessionID))
		return
	}

	png, err := h.sessions.QRCode(session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.manager.GetStatus(r.Context(), param(r, "id"))
	h.reply(w, r, status, err)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	history, err := h.manager.GetHistory(r.Context(), param(r, "id"))
	h.reply(w, r, history, err)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.manager.GetLeaderboard(r.Context())
	h.reply(w, r, entries, err)
}

type weightRequest struct {
	Weight float64 `json:"weight"`
}

func (h *Handler) logWeight(w http.ResponseWriter, r *http.Request) {
	var req weightRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	log, err := h.manager.LogWeight(r.Context(), param(r, "id"), req.Weight)
	h.reply(w, r, log, err)
}

func (h *Handler) habits(w http.ResponseWriter, r *http.Request) {
	board, err := h.manager.GetHabits(r.Context(), param(r, "id"))
	h.reply(w, r, board, err)
}

func (h *Handler) completeHabit(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.manager.CompleteHabit(r.Context(), param(r, "id"), param(r, "habit"))
	h.reply(w, r, outcome, err)
}

func (h *Handler) tasks(w http.ResponseWriter, r *http.Request) {
	board, err := h.manager.GetTasks(r.Context(), param(r, "id"))
	h.reply(w, r, board, err)
}

func (h *Handler) completeTask(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r, "index")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	outcome, err := h.manager.CompleteTask(r.Context(), param(r, "id"), index)
	h.reply(w, r, outcome, err)
}

func (h *Handler) shop(w http.ResponseWriter, r *http.Request) {
	listing, err := h.manager.GetShop(r.Context(), param(r, "id"))
	h.reply(w, r, listing, err)
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.manager.Purchase(r.Context(), param(r, "id"), param(r, "item"))
	h.reply(w, r, outcome, err)
}

func (h *Handler) inventory(w http.ResponseWriter, r *http.Request) {
	inventory, err := h.manager.GetInventory(r.Context(), param(r, "id"))
	h.reply(w, r, inventory, err)
}

func (h *Handler) redeem(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r, "index")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	outcome, err := h.manager.Redeem(r.Context(), param(r, "id"), index)
	h.reply(w, r, outcome, err)
}

func (h *Handler) skills(w http.ResponseWriter, r *http.Request) {
	views, err := h.manager.GetSkills(r.Context(), param(r, "id"))
	h.reply(w, r, views, err)
}

type masterSkillRequest struct {
	Category string `json:"category"`
	Skill    string `json:"skill"`
}

func (h *Handler) masterSkill(w http.ResponseWriter, r *http.Request) {
	var req masterSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	outcome, err := h.manager.MasterSkill(r.Context(), param(r, "id"), req.Category, req.Skill)
	h.reply(w, r, outcome, err)
}

func (h *Handler) workout(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.GetWorkout(r.Context(), param(r, "id"))
	h.reply(w, r, view, err)
}

type importRequest struct {
	CSV string `json:"csv"`
}

// importWorkout accepts the plan as a raw text/csv body or as {"csv": "..."}
func (h *Handler) importWorkout(w http.ResponseWriter, r *http.Request) {
	var plan string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/") {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			h.fail(w, r, apperrors.NewValidation("body", "unreadable body: %v", err))
			return
		}
		plan = string(data)
	} else {
		var req importRequest
		if err := decodeJSON(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
		plan = req.CSV
	}

	result, err := h.manager.ImportWorkoutPlan(r.Context(), param(r, "id"), plan)
	h.reply(w, r, result, err)
}

type startRequest struct {
	Day string `json:"day"`
}

func (h *Handler) startWorkout(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.manager.StartWorkout(r.Context(), param(r, "id"), req.Day)
	h.reply(w, r, view, err)
}

func (h *Handler) completeSet(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.CompleteSet(r.Context(), param(r, "id"))
	h.reply(w, r, view, err)
}

type submitRequest struct {
	Weight string `json:"weight"`
	Notes  string `json:"notes"`
}

func (h *Handler) submitExercise(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.manager.SubmitExercise(r.Context(), param(r, "id"), req.Weight, req.Notes)
	h.reply(w, r, view, err)
}

func (h *Handler) claimWorkout(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.manager.ClaimWorkout(r.Context(), param(r, "id"))
	h.reply(w, r, outcome, err)
}

func (h *Handler) abortWorkout(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.AbortWorkout(r.Context(), param(r, "id"))
	h.reply(w, r, view, err)
}

func (h *Handler) plates(w http.ResponseWriter, r *http.Request) {
	target, err := game.ParsePlateTarget(r.URL.Query().Get("target"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	load, err := game.CalculatePlates(target)
	h.reply(w, r, load, err)
}

type assignTaskRequest struct {
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	DueDate   string `json:"due_date"`
}

func (h *Handler) assignTask(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req assignTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	var due types.Date
	if req.DueDate != "" {
		if due, err = types.ParseDate(req.DueDate); err != nil {
			h.fail(w, r, apperrors.NewValidation("due_date", "expected YYYY-MM-DD, got %q", req.DueDate))
			return
		}
	}

	task, err := h.manager.AssignTask(r.Context(), actor, param(r, "target"), req.Name, req.Attribute, due)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

type shopItemRequest struct {
	Item  string `json:"item"`
	Price int    `json:"price"`
}

func (h *Handler) addShopItem(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req shopItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	err = h.manager.AddShopItem(r.Context(), actor, param(r, "target"), req.Item, req.Price)
	h.created(w, r, req, err)
}

func (h *Handler) removeShopItem(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item := param(r, "item")
	err = h.manager.RemoveShopItem(r.Context(), actor, param(r, "target"), item)
	h.reply(w, r, map[string]string{"deleted": item}, err)
}

type habitRequest struct {
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
}

func (h *Handler) addHabit(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req habitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	err = h.manager.AddHabit(r.Context(), actor, param(r, "target"), req.Name, req.Attribute)
	h.created(w, r, req, err)
}

func (h *Handler) removeHabit(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	habit := param(r, "habit")
	err = h.manager.RemoveHabit(r.Context(), actor, param(r, "target"), habit)
	h.reply(w, r, map[string]string{"deleted": habit}, err)
}

type skillRequest struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	XP        int    `json:"xp"`
}

func (h *Handler) addSkill(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req skillRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	err = h.manager.AddSkill(r.Context(), actor, param(r, "target"), req.Category, req.Name, req.Attribute, req.XP)
	h.created(w, r, req, err)
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) created(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, body)
}

