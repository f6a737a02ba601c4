package api

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/gliffydb/pkg/blueprint"
	"github.com/matzehuels/gliffydb/pkg/buildinfo"
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/pipeline"
)

// Response headers describing a built document.
const (
	HeaderHash     = "X-Gliffy-Hash"
	HeaderLocation = "X-Gliffy-Location"
	HeaderNodes    = "X-Gliffy-Nodes"
	HeaderCache    = "X-Cache"
)

// ContentTypeGliffy is the media type of Gliffy documents.
const ContentTypeGliffy = "application/gliffy+json"

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: info.Version, Commit: info.Commit})
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Warn("document build failed", "error", err)
		writeError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", ContentTypeGliffy)
	h.Set(HeaderHash, res.Hash)
	h.Set(HeaderNodes, strconv.Itoa(res.Stats.NodeCount))
	h.Set(HeaderCache, cacheStatus(res.CacheInfo.DocumentHit))
	if res.Location != "" {
		h.Set(HeaderLocation, res.Location)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Document)
}

func (s *Server) createPreview(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Preview = true
	opts.DryRun = true
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Warn("preview failed", "error", err)
		writeError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "image/svg+xml")
	h.Set(HeaderHash, res.Hash)
	h.Set(HeaderCache, cacheStatus(res.CacheInfo.PreviewHit))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Preview)
}

// options reads the blueprint body and query parameters.
func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	format, err := requestFormat(r)
	if err != nil {
		return pipeline.Options{}, err
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(body) == 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}

	store, _ := strconv.ParseBool(q.Get("store"))
	return pipeline.Options{
		Blueprint:  body,
		Format:     format,
		Title:      q.Get("title"),
		Background: q.Get("background"),
		Indent:     q.Get("indent"),
		Name:       q.Get("name"),
		Refresh:    q.Get("refresh") == "true",
		DryRun:     !store,
		Logger:     s.logger,
	}, nil
}

func requestFormat(r *http.Request) (blueprint.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return blueprint.ParseFormat(f)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return blueprint.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse Content-Type")
	}
	switch mediaType {
	case "application/json":
		return blueprint.FormatJSON, nil
	case "application/toml":
		return blueprint.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return blueprint.FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported Content-Type %q", mediaType)
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
