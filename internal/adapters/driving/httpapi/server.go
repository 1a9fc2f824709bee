// Package httpapi exposes the ingestion and query pipelines over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driving"
	"github.com/quayside-labs/ragpipe/internal/logger"
	"github.com/quayside-labs/ragpipe/internal/normalisers"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 32 << 20

// Server routes HTTP requests to the driving ports.
type Server struct {
	ingest  driving.IngestService
	query   driving.QueryService
	index   driven.VectorIndex
	parsers *normalisers.Registry
	engine  *gin.Engine
}

// New creates the HTTP server around the two pipelines and the index.
func New(ingest driving.IngestService, query driving.QueryService, index driven.VectorIndex, parsers *normalisers.Registry) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		ingest:  ingest,
		query:   query,
		index:   index,
		parsers: parsers,
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery(), requestID())

	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/ingest", s.handleIngest)
	s.engine.POST("/query", s.handleQuery)
	s.engine.POST("/clear-embeddings", s.handleClear)

	return s
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	logger.Info("http api listening on %s", addr)
	return s.engine.Run(addr)
}

// requestID tags every request so log lines can be correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleClear(c *gin.Context) {
	if err := s.index.Clear(c.Request.Context()); err != nil {
		s.renderError(c, err)
		return
	}
	logger.Info("vector index cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

type queryRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question required"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question required"})
		return
	}

	answer, err := s.query.Ask(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Question required"})
			return
		}
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

type ingestResponse struct {
	OK       bool   `json:"ok"`
	Chunks   int    `json:"chunks"`
	Document string `json:"document"`
}

func (s *Server) handleIngest(c *gin.Context) {
	doc, err := s.readUpload(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	receipt, err := s.ingest.Ingest(c.Request.Context(), doc)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, ingestResponse{
		OK:       true,
		Chunks:   receipt.Chunks,
		Document: receipt.DocumentID,
	})
}

// readUpload accepts either a multipart form with a "file" part or a raw
// text body, and extracts the document text.
func (s *Server) readUpload(c *gin.Context) (domain.Document, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if header, err := c.FormFile("file"); err == nil {
		f, err := header.Open()
		if err != nil {
			return domain.Document{}, err
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return domain.Document{}, err
		}
		return s.extract(c.Request.Context(), header.Filename, data)
	}

	// Raw body fallback for clients posting text directly.
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return domain.Document{}, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return domain.Document{}, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}
	return s.extract(c.Request.Context(), "upload.txt", data)
}

func (s *Server) extract(ctx context.Context, filename string, data []byte) (domain.Document, error) {
	text, err := s.parsers.Extract(ctx, filename, data)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Source: filename, Content: text}, nil
}

// renderError maps domain errors to HTTP status codes. Wrapped detail stays
// in the logs; clients get the short form.
func (s *Server) renderError(c *gin.Context, err error) {
	logger.Debug("request failed: %v", err)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File required"})
	case errors.Is(err, domain.ErrNoContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "document has no extractable text"})
	case errors.Is(err, domain.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported document format"})
	case errors.Is(err, domain.ErrBackendUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream provider unavailable"})
	case errors.Is(err, domain.ErrIndexNotProvisioned):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vector index not provisioned"})
	case errors.Is(err, domain.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
