package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tsimport/internal/core"
	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/timestamp"
)

// multipartOverhead is allowed on top of the file size for form fields and boundaries.
const multipartOverhead = 1 << 20

// maxJSONBody caps detect and parse request bodies.
const maxJSONBody = 1 << 20

type detectRequest struct {
	Samples []string `json:"samples"`
}

type detectResponse struct {
	Columns []timestamp.ColumnTypeInfo `json:"columns"`
}

type parseRequest struct {
	Value  string `json:"value"`
	Format string `json:"format,omitempty"`
}

// parseResponse carries Seconds as null when the value is absent.
type parseResponse struct {
	Value   string   `json:"value"`
	Seconds *float64 `json:"seconds"`
}

type healthResponse struct {
	Status  string             `json:"status"`
	Imports core.LimiterStatus `json:"imports"`
}

// handleHealth reports 503 when the database is unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Health(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Imports: status})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Imports: status})
}

// handleDetect classifies each sample in the request body.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detectResponse{Columns: s.service.Detect(req.Samples)})
}

// handleParse converts one value, detecting its type unless a format is given.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := parseResponse{Value: req.Value}
	if v, ok := s.service.ParseValue(req.Value, req.Format); ok {
		resp.Seconds = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateImport reads a multipart upload with fields file, delimiter,
// time_column and time_format.
func (s *Server) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	// Form fields must precede the file part; the file is streamed, not buffered.
	var req core.ImportRequest
	for {
		part, err := mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.respondError(w, r, core.ErrNoFile)
				return
			}
			s.respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		if part.FormName() != "file" {
			value, err := readField(part)
			if err != nil {
				s.respondError(w, r, err)
				return
			}
			if err := applyField(&req, part.FormName(), value); err != nil {
				s.respondError(w, r, err)
				return
			}
			continue
		}

		req.FileName = part.FileName()
		req.Reader = part
		req.Size = contentLength(r, maxSize)
		break
	}

	result, err := s.service.Import(withRequestMetadata(r.Context(), r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func applyField(req *core.ImportRequest, name, value string) error {
	switch name {
	case "delimiter":
		if value == `\t` || value == "tab" {
			value = "\t"
		}
		if value == "" {
			return nil
		}
		r, size := utf8.DecodeRuneInString(value)
		if size != len(value) {
			return fmt.Errorf("%w: delimiter must be a single character", errBadRequest)
		}
		req.Delimiter = r
	case "time_column":
		req.TimeColumn = value
	case "time_format":
		req.TimeFormat = value
	}
	return nil
}

// contentLength reports an oversized request up front so it fails before parsing.
// Otherwise the part size is unknown (-1) and the body limit guards the stream.
func contentLength(r *http.Request, maxSize int64) int64 {
	if r.ContentLength > maxSize+multipartOverhead {
		return r.ContentLength
	}
	return -1
}

// maxFieldSize caps non-file form fields.
const maxFieldSize = 4 << 10

func readField(part io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if len(b) > maxFieldSize {
		return "", fmt.Errorf("%w: form field too long", errBadRequest)
	}
	return string(b), nil
}

// handleListImports returns recent imports; ?limit= caps the count.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	imports, err := s.service.ListImports(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imports)
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GetImport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteImport(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteImport(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReadings pages through one column; ?offset= and ?limit= select the window.
func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil || position < 0 {
		s.respondError(w, r, fmt.Errorf("%w: position must be a non-negative integer", errBadRequest))
		return
	}

	readings, err := s.service.Readings(r.Context(), chi.URLParam(r, "id"), position,
		queryInt(r, "offset", 0), queryInt(r, "limit", 0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// queryInt parses a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}
