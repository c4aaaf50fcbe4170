package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/fixdecode/internal/dictionary"
	"github.com/danmuck/fixdecode/internal/fix"
	"github.com/danmuck/fixdecode/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiVersion = "0.1.0"

type decodeRequest struct {
	Message string `json:"message"`
	// Delimiter overrides the configured default: auto, pipe or soh.
	Delimiter string `json:"delimiter"`
}

type convertRequest struct {
	Message string `json:"message"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type versionInfo struct {
	Version   dictionary.Version `json:"version"`
	Fields    int                `json:"fields"`
	Transport bool               `json:"transport"`
}

type fieldEntry struct {
	Tag  int    `json:"tag"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": apiVersion,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.POST("/decode", s.limitBody(), s.handleDecode)
	v1.POST("/convert", s.limitBody(), s.handleConvert)
	v1.GET("/versions", s.handleVersions)
	v1.GET("/dictionaries/:version/fields", s.handleFields)
	v1.GET("/dictionaries/:version/fields/:tag", s.handleField)
}

func (s *Server) handleDecode(c *gin.Context) {
	var req decodeRequest
	if !bindJSON(c, &req) {
		return
	}
	delim := s.cfg.Decode.DefaultDelimiter()
	if strings.TrimSpace(req.Delimiter) != "" {
		d, err := fix.ParseDelimiter(req.Delimiter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		delim = d
	}

	result, err := s.decoder.Decode(req.Message, delim)
	if err != nil {
		observability.RecordDecodeRejected()
		status := http.StatusInternalServerError
		if errors.Is(err, fix.ErrEmptyInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	observability.RecordDecode(result.Version.String(), result.VersionDefaulted, len(result.Fields), result.UnknownTags())
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleConvert(c *gin.Context) {
	var req convertRequest
	if !bindJSON(c, &req) {
		return
	}
	from, err := fix.ParseDelimiter(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := fix.ParseDelimiter(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from = fix.ResolveDelimiter(req.Message, from)
	if to == fix.DelimiterAuto {
		to = from.Toggle()
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   fix.ConvertDelimiter(req.Message, from, to),
		"from":      from,
		"delimiter": to,
	})
}

func (s *Server) handleVersions(c *gin.Context) {
	store := s.decoder.Store()
	out := make([]versionInfo, 0, len(store.Versions()))
	for _, v := range store.Versions() {
		out = append(out, versionInfo{
			Version:   v,
			Fields:    store.DictionaryFor(v).Len(),
			Transport: v.Transport(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"default":  dictionary.DefaultVersion,
		"versions": out,
	})
}

func (s *Server) handleFields(c *gin.Context) {
	version, ok := s.loadedVersion(c)
	if !ok {
		return
	}
	defs := s.decoder.Store().DictionaryFor(version).Fields()
	out := make([]fieldEntry, 0, len(defs))
	for _, def := range defs {
		out = append(out, fieldEntry(def))
	}
	c.JSON(http.StatusOK, gin.H{
		"version": version,
		"fields":  out,
	})
}

func (s *Server) handleField(c *gin.Context) {
	version, ok := s.loadedVersion(c)
	if !ok {
		return
	}
	tag := strings.TrimSpace(c.Param("tag"))
	info, ok := s.decoder.Store().Lookup(version, tag)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "field not found", "version": version, "tag": tag})
		return
	}
	c.JSON(http.StatusOK, info)
}

// loadedVersion parses the :version param and answers 404 when it is not a
// FIX version or the store has no dictionary for it.
func (s *Server) loadedVersion(c *gin.Context) (dictionary.Version, bool) {
	version, err := dictionary.RequireVersion(c.Param("version"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return "", false
	}
	if !s.decoder.Store().Has(version) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no dictionary loaded", "version": version})
		return "", false
	}
	return version, true
}

func (s *Server) limitBody() gin.HandlerFunc {
	limit := s.cfg.MaxBodyBytes
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
