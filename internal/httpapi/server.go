// Package httpapi is the REST surface around the triage engine. It is
// CRUD plumbing: validation, identity, and persistence live here so the
// engine itself stays pure.
package httpapi

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carelane/triage/pkg/triage"
	"github.com/carelane/triage/pkg/triage/store"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

const recordTimeout = 5 * time.Second

// Server wires the engine, the session store, and auth into a gin
// router.
type Server struct {
	engine *triage.Evaluator
	store  store.Store
	auth   *Auth

	pending sync.WaitGroup
}

// New creates a Server.
func New(engine *triage.Evaluator, st store.Store, auth *Auth) *Server {
	return &Server{engine: engine, store: st, auth: auth}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	guard := s.auth.Middleware()

	api := router.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/demo", s.listDemos)
		api.GET("/demo/:id", s.getDemo)
		api.GET("/rules", s.getRules)

		api.POST("/triage", guard, s.postTriage)
		api.GET("/me", guard, s.me)
		api.GET("/sessions/recent", guard, s.recentSessions)
		api.GET("/stats", guard, s.stats)
	}
	return router
}

// Wait blocks until all fire-and-forget session writes have finished.
// Called on shutdown so a slow write is flushed, never dropped.
func (s *Server) Wait() {
	s.pending.Wait()
}

// postTriage evaluates a request. Missing symptoms is a boundary
// validation error; the engine assumes a well-formed request.
func (s *Server) postTriage(c *gin.Context) {
	var req triage.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Symptoms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symptoms is required and must be non-empty"})
		return
	}

	result := s.engine.Evaluate(c.Request.Context(), req)
	s.record(req, result, identity(c))
	c.JSON(http.StatusOK, result)
}

// record hands the evaluation to the session store without blocking
// the response. Write failures are logged and dropped.
func (s *Server) record(req triage.Request, res triage.Result, userID string) {
	if s.store == nil {
		return
	}
	sess := store.NewSession(req, res, userID)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.store.SaveSession(ctx, sess); err != nil {
			log.Printf("save session %s: %v", sess.SessionID, err)
		}
	}()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// getRules dumps the loaded catalog for debugging and admin use.
func (s *Server) getRules(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Catalog())
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": identity(c)})
}

// recentSessions lists the newest stored sessions for the dashboard.
func (s *Server) recentSessions(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 200"})
			return
		}
		limit = n
	}

	sessions, err := s.store.RecentSessions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": toSessionViews(sessions)})
}

// stats reports per-label counts over the stored sessions.
func (s *Server) stats(c *gin.Context) {
	counts, err := s.store.CountByLabel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "by_label": counts})
}

// sessionView is the wire shape of a stored session.
type sessionView struct {
	EventID      string               `json:"event_id"`
	SessionID    string               `json:"session_id"`
	CreatedAt    time.Time            `json:"created_at"`
	UserID       string               `json:"user_id,omitempty"`
	Request      triage.Request       `json:"request"`
	TriageLabel  string               `json:"triage_label"`
	MatchedRules []triage.MatchedRule `json:"matched_rules"`
	Explanation  string               `json:"explanation"`
	Confidence   float64              `json:"confidence"`
}

func toSessionViews(sessions []store.Session) []sessionView {
	out := make([]sessionView, len(sessions))
	for i, s := range sessions {
		out[i] = sessionView{
			EventID:      s.EventID,
			SessionID:    s.SessionID,
			CreatedAt:    s.CreatedAt,
			UserID:       s.UserID,
			Request:      s.Request,
			TriageLabel:  s.TriageLabel,
			MatchedRules: s.MatchedRules,
			Explanation:  s.Explanation,
			Confidence:   s.Confidence,
		}
	}
	return out
}
