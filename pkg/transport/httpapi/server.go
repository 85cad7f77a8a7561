// Package httpapi serves the historical POST /generate_pdf endpoint with gin.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
)

// Routes.
const (
	GeneratePath = "/generate_pdf"
	ContractPath = "/openapi.yaml"
	HealthPath   = "/healthz"
)

// MissingBodyMessage is returned with 400 when no JSON object was posted.
const MissingBodyMessage = "Nenhum JSON recebido"

// InvalidBodyMessage is returned with 422 when the JSON does not match the
// contract, and with 400 when it holds values the form rejects.
const InvalidBodyMessage = "JSON inválido"

const maxBodyBytes = 1 << 20

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFormOptions sets the options used to build the Form of each request.
func WithFormOptions(options ...model.Option) Option {
	return func(s *Server) {
		s.formOptions = append(s.formOptions, options...)
	}
}

// WithAllowedOrigins restricts CORS to origins. The default allows any
// origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}

// WithContract replaces the embedded contract.
func WithContract(contract *Contract) Option {
	return func(s *Server) {
		s.contract = contract
	}
}

// Server turns posted records into PDF attachments through a Backend.
type Server struct {
	backend     export.Backend
	contract    *Contract
	formOptions []model.Option
	origins     []string
	logger      *zap.Logger
	engine      *gin.Engine
}

// New builds the gin engine. The embedded contract is loaded and validated
// unless WithContract supplies one.
func New(backend export.Backend, options ...Option) (*Server, error) {
	if backend == nil {
		return nil, errors.New("httpapi: backend is required")
	}
	s := &Server{backend: backend, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.contract == nil {
		contract, err := LoadContract(context.Background())
		if err != nil {
			return nil, err
		}
		s.contract = contract
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(s.logger), cors(s.origins))
	engine.POST(GeneratePath, s.generatePDF)
	engine.GET(ContractPath, s.serveContract)
	engine.GET(HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine = engine
	return s, nil
}

// Handler returns the http.Handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpapi: serve: %w", err)
	}
	return nil
}

func (s *Server) generatePDF(c *gin.Context) {
	logger := s.logger.With(zap.String("request_id", c.GetString(requestIDKey)))

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": MissingBodyMessage})
		return
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MissingBodyMessage})
		return
	}
	object, ok := value.(map[string]any)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": MissingBodyMessage})
		return
	}
	if err := s.contract.ValidateBody(object); err != nil {
		var berr *BodyError
		if !errors.As(err, &berr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": InvalidBodyMessage, "details": err.Error()})
			return
		}
		logger.Info("request body rejected by contract", zap.Int("violations", len(berr.Violations)))
		mapping := render.MapErrorPayload(recordShape(object), berr.Payload())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  InvalidBodyMessage,
			"fields": mapping.Fields,
			"form":   mapping.Form,
		})
		return
	}

	rec, err := model.DecodeJSON(bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": InvalidBodyMessage, "details": err.Error()})
		return
	}
	form, err := model.FromRecord(rec, append(slices.Clip(s.formOptions), model.WithLogger(logger))...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": InvalidBodyMessage, "details": err.Error()})
		return
	}
	snapshot := form.Snapshot()

	if err := form.Validate(); err != nil {
		mapping := render.MapValidationErrors(snapshot, err)
		var verr *model.ValidationError
		message := err.Error()
		if errors.As(err, &verr) {
			message = verr.Message()
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  message,
			"fields": mapping.Fields,
			"form":   mapping.Form,
		})
		return
	}

	pdf, err := s.backend.Produce(c.Request.Context(), snapshot)
	if err != nil || len(pdf) == 0 {
		logger.Error("generate pdf failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": export.UserMessage})
		return
	}

	filename := preview.Filename(snapshot.Name)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "application/pdf", pdf)
	logger.Info("pdf generated", zap.String("filename", filename), zap.Int("bytes", len(pdf)))
}

// recordShape sizes a record after the groups of a posted body, so the entry
// paths of contract violations can be matched.
func recordShape(body map[string]any) model.Record {
	count := func(group model.Group) int {
		items, _ := body[string(group)].([]any)
		return len(items)
	}
	rec := model.NewRecord()
	rec.Education = make([]model.EducationEntry, count(model.GroupEducation))
	rec.Courses = make([]model.CourseEntry, count(model.GroupCourses))
	rec.Knowledge = make([]model.KnowledgeEntry, count(model.GroupKnowledge))
	rec.Languages = make([]model.LanguageEntry, count(model.GroupLanguages))

	jobs, _ := body[string(model.GroupJobs)].([]any)
	rec.Jobs = make([]model.JobEntry, len(jobs))
	for i, raw := range jobs {
		entry, _ := raw.(map[string]any)
		items, _ := entry[string(model.EntryResponsibilities)].([]any)
		rec.Jobs[i].Responsibilities = make([]string, len(items))
	}
	return rec
}

func (s *Server) serveContract(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", contractYAML)
}
