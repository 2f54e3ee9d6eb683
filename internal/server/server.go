// Package server exposes the generation pipeline over HTTP. The API is
// JSON-only and deliberately small: generate a script set, list products,
// import reviews, read back recent generations.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/pipeline"
	"github.com/mymuse/adstudio/internal/product"
	"github.com/mymuse/adstudio/internal/prompt"
	"github.com/mymuse/adstudio/internal/reviews"
	"github.com/mymuse/adstudio/internal/store"
)

// maxVariations bounds a single request so one call cannot monopolize the
// backend chain.
const maxVariations = 25

// Server owns the router and the pipeline collaborators behind it.
type Server struct {
	orch   *pipeline.Orchestrator
	index  *reviews.MemoryIndex
	meili  *reviews.Meili
	store  *store.Store
	logger *slog.Logger
	router *gin.Engine
}

// New builds a ready-to-serve Server. index and st may be nil; the review
// import and history endpoints report accordingly. meili may be nil, in
// which case imported reviews live only in the in-memory index.
func New(orch *pipeline.Orchestrator, index *reviews.MemoryIndex, meili *reviews.Meili, st *store.Store, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{orch: orch, index: index, meili: meili, store: st, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.SetTrustedProxies(nil)

	r.GET("/healthz", s.health)
	api := r.Group("/api")
	api.POST("/generate", s.generate)
	api.GET("/products", s.products)
	api.POST("/reviews/import", s.importReviews)
	api.GET("/history", s.history)

	s.router = r
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

type generateRequest struct {
	ProductID         string `json:"product_id"`
	Transcript        string `json:"transcript"`
	ToneMode          string `json:"tone_mode"`
	ContentIntensity  string `json:"content_intensity"`
	StrictProductOnly bool   `json:"strict_product_only"`
	Count             int    `json:"count"`
}

type scriptJSON struct {
	Text      string   `json:"text"`
	Score     int      `json:"score"`
	Pass      bool     `json:"pass"`
	Feedback  []string `json:"feedback,omitempty"`
	Rewritten bool     `json:"rewritten,omitempty"`
}

type summaryJSON struct {
	Total     int `json:"total"`
	Passed    int `json:"passed"`
	TopScore  int `json:"top_score"`
	Rewritten int `json:"rewritten"`
}

type generateResponse struct {
	ProductID  string       `json:"product_id"`
	Category   string       `json:"category"`
	Script     scriptJSON   `json:"script"`
	Variations []scriptJSON `json:"variations"`
	Summary    summaryJSON  `json:"summary"`
}

func (s *Server) generate(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body: "+err.Error())
		return
	}
	if body.Count > maxVariations {
		respondError(c, http.StatusBadRequest, ErrCodeValidation,
			fmt.Sprintf("count must be %d or fewer", maxVariations))
		return
	}

	req := prompt.Request{
		ProductID:         body.ProductID,
		Transcript:        body.Transcript,
		Tone:              prompt.ToneMode(body.ToneMode),
		Intensity:         prompt.Intensity(body.ContentIntensity),
		StrictProductOnly: body.StrictProductOnly,
		Count:             body.Count,
	}

	set, err := s.orch.GenerateSet(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "generation canceled")
			return
		}
		s.logger.Error("generation failed", "error", err)
		respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "all generation backends failed")
		return
	}

	resp := generateResponse{
		ProductID: set.Request.ProductID,
		Category:  string(set.Category),
		Script:    toScriptJSON(set.Script),
		Summary: summaryJSON{
			Total:     set.Summary.Total,
			Passed:    set.Summary.Passed,
			TopScore:  set.Summary.TopScore,
			Rewritten: set.Summary.Rewritten,
		},
	}
	for _, v := range set.Variations {
		resp.Variations = append(resp.Variations, toScriptJSON(v))
	}
	respondData(c, resp)
}

func toScriptJSON(cand pipeline.Candidate) scriptJSON {
	return scriptJSON{
		Text:      cand.Text,
		Score:     cand.Eval.Score,
		Pass:      cand.Eval.Pass,
		Feedback:  cand.Eval.Feedback,
		Rewritten: cand.Rewritten,
	}
}

type productJSON struct {
	ID         string   `json:"id"`
	Shape      []string `json:"shape,omitempty"`
	Features   []string `json:"features,omitempty"`
	SpeedModes int      `json:"speed_modes,omitempty"`
}

type catalogJSON struct {
	Products   []productJSON `json:"products"`
	Categories []string      `json:"categories"`
}

func (s *Server) products(c *gin.Context) {
	var out catalogJSON
	for _, id := range product.IDs() {
		f, _ := product.Facts(id)
		out.Products = append(out.Products, productJSON{
			ID:         f.ID,
			Shape:      f.Shape,
			Features:   f.Features,
			SpeedModes: f.SpeedModes,
		})
	}
	for _, cat := range classify.CategoryNames() {
		out.Categories = append(out.Categories, string(cat))
	}
	respondData(c, out)
}

func (s *Server) importReviews(c *gin.Context) {
	if s.index == nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "review import is not enabled")
		return
	}
	docs, err := reviews.ParseCSV(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}
	for _, d := range docs {
		s.index.Add(d.Product, d.Text)
	}
	indexed := false
	if s.meili != nil {
		if err := s.meili.AddAll(c.Request.Context(), docs); err != nil {
			s.logger.Warn("meilisearch indexing failed, reviews kept in memory", "error", err)
		} else {
			indexed = true
		}
	}
	s.logger.Info("reviews imported", "count", len(docs), "indexed", indexed)
	respondData(c, gin.H{"imported": len(docs), "indexed": indexed})
}

type historyJSON struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ProductID string    `json:"product_id"`
	Category  string    `json:"category"`
	Tone      string    `json:"tone"`
	Score     int       `json:"score"`
	Pass      bool      `json:"pass"`
	Script    string    `json:"script"`
}

func (s *Server) history(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "generation history is not enabled")
		return
	}
	limit := 20
	if v := c.Query("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil || limit <= 0 {
			respondError(c, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")
			return
		}
	}
	recs, err := s.store.Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("history lookup failed", "error", err)
		respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "history lookup failed")
		return
	}
	var out []historyJSON
	for _, r := range recs {
		out = append(out, historyJSON{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			ProductID: r.ProductID,
			Category:  r.Category,
			Tone:      r.Tone,
			Score:     r.Score,
			Pass:      r.Pass,
			Script:    r.Script,
		})
	}
	respondList(c, out)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger is a minimal slog access log.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	}
}
