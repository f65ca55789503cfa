package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"waypoint/api/internal/store"
)

const (
	resourceTasks        = "tasks"
	resourceMilestones   = "milestones"
	resourceRoadmaps     = "roadmaps"
	resourceTags         = "tags"
	resourceAssignees    = "assignees"
	resourceTaskStatuses = "task-statuses"
)

// resource binds one REST collection to its service operations.
type resource struct {
	// expandKeys are the query flags the resource understands.
	expandKeys []string
	list       func(context.Context, store.Expand) (any, error)
	get        func(context.Context, int64, store.Expand) (any, error)
	create     func(context.Context, requestBody) (any, error)
	update     func(context.Context, int64, requestBody) (any, error)
	remove     func(context.Context, int64) error
}

type HTTPServer struct {
	service    *Service
	corsOrigin string
	resources  map[string]resource
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	s := &HTTPServer{service: service, corsOrigin: corsOrigin}
	s.resources = map[string]resource{
		resourceTasks: {
			expandKeys: []string{"tags", "roadmaps"},
			list: func(ctx context.Context, expand store.Expand) (any, error) {
				return service.ListTasks(ctx, expand)
			},
			get: func(ctx context.Context, id int64, expand store.Expand) (any, error) {
				return service.GetTask(ctx, id, expand)
			},
			create: func(ctx context.Context, body requestBody) (any, error) {
				return service.CreateTask(ctx, body)
			},
			update: func(ctx context.Context, id int64, body requestBody) (any, error) {
				return service.UpdateTask(ctx, id, body)
			},
			remove: service.DeleteTask,
		},
		resourceMilestones: {
			expandKeys: []string{"tags", "roadmaps"},
			list: func(ctx context.Context, expand store.Expand) (any, error) {
				return service.ListMilestones(ctx, expand)
			},
			get: func(ctx context.Context, id int64, expand store.Expand) (any, error) {
				return service.GetMilestone(ctx, id, expand)
			},
			create: func(ctx context.Context, body requestBody) (any, error) {
				return service.CreateMilestone(ctx, body)
			},
			update: func(ctx context.Context, id int64, body requestBody) (any, error) {
				return service.UpdateMilestone(ctx, id, body)
			},
			remove: service.DeleteMilestone,
		},
		resourceRoadmaps: {
			expandKeys: []string{"milestones", "tags"},
			list: func(ctx context.Context, expand store.Expand) (any, error) {
				return service.ListRoadmaps(ctx, expand)
			},
			get: func(ctx context.Context, id int64, expand store.Expand) (any, error) {
				return service.GetRoadmap(ctx, id, expand)
			},
			create: func(ctx context.Context, body requestBody) (any, error) {
				return service.CreateRoadmap(ctx, body)
			},
			update: func(ctx context.Context, id int64, body requestBody) (any, error) {
				return service.UpdateRoadmap(ctx, id, body)
			},
			remove: service.DeleteRoadmap,
		},
		resourceTags: {
			list: func(ctx context.Context, _ store.Expand) (any, error) {
				return service.ListTags(ctx)
			},
			get: func(ctx context.Context, id int64, _ store.Expand) (any, error) {
				return service.GetTag(ctx, id)
			},
			create: func(ctx context.Context, body requestBody) (any, error) {
				return service.CreateTag(ctx, body)
			},
			update: func(ctx context.Context, id int64, body requestBody) (any, error) {
				return service.UpdateTag(ctx, id, body)
			},
			remove: service.DeleteTag,
		},
		resourceAssignees: {
			list: func(ctx context.Context, _ store.Expand) (any, error) {
				return service.ListAssignees(ctx)
			},
			get: func(ctx context.Context, id int64, _ store.Expand) (any, error) {
				return service.GetAssignee(ctx, id)
			},
			create: func(ctx context.Context, body requestBody) (any, error) {
				return service.CreateAssignee(ctx, body)
			},
			update: func(ctx context.Context, id int64, body requestBody) (any, error) {
				return service.UpdateAssignee(ctx, id, body)
			},
			remove: service.DeleteAssignee,
		},
		resourceTaskStatuses: {
			list: func(ctx context.Context, _ store.Expand) (any, error) {
				return service.ListTaskStatuses(ctx)
			},
			get: func(ctx context.Context, id int64, _ store.Expand) (any, error) {
				return service.GetTaskStatus(ctx, id)
			},
			create: func(ctx context.Context, body requestBody) (any, error) {
				return service.CreateTaskStatus(ctx, body)
			},
			update: func(ctx context.Context, id int64, body requestBody) (any, error) {
				return service.UpdateTaskStatus(ctx, id, body)
			},
			remove: service.DeleteTaskStatus,
		},
	}
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		s.handleReady(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		s.handleSearch(w, r)
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) < 2 || parts[0] != "api" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	if parts[1] == "images" {
		s.handleImages(w, r, parts)
		return
	}

	res, ok := s.resources[parts[1]]
	if !ok || len(parts) > 3 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	if len(parts) == 2 {
		s.handleCollection(w, r, res)
		return
	}

	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "id must be a non-negative integer", nil)
		return
	}
	s.handleItem(w, r, res, id)
}

func (s *HTTPServer) handleCollection(w http.ResponseWriter, r *http.Request, res resource) {
	if r.Method == http.MethodGet {
		expand, err := parseExpand(r, res.expandKeys)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		payload, err := res.list(r.Context(), expand)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodPost {
		var body requestBody
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		payload, err := res.create(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, payload)
		return
	}

	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}

func (s *HTTPServer) handleItem(w http.ResponseWriter, r *http.Request, res resource, id int64) {
	if r.Method == http.MethodGet {
		expand, err := parseExpand(r, res.expandKeys)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		payload, err := res.get(r.Context(), id, expand)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodPut {
		var body requestBody
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		payload, err := res.update(r.Context(), id, body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodDelete {
		if err := res.remove(r.Context(), id); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	// Check database connectivity
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"database": map[string]any{"status": "ok"},
	}

	if err := s.service.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = map[string]any{
			"status": "error",
			"error":  err.Error(),
		}
	}

	// Image storage is optional; a failure is reported without failing readiness.
	if configured, err := s.service.PingImages(ctx); configured {
		imageCheck := map[string]any{"status": "ok"}
		if err != nil {
			imageCheck = map[string]any{"status": "error", "error": err.Error()}
		}
		checks["images"] = imageCheck
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}
	payload, err := s.service.Search(r.Context(), query.Get("q"), query.Get("type"), limit)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *HTTPServer) handleImages(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) == 2 && r.Method == http.MethodPost {
		data, err := s.readImage(r)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		payload, err := s.service.UploadImage(r.Context(), data)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, payload)
		return
	}

	if len(parts) == 3 && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		image, err := s.service.GetImage(r.Context(), parts[2])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.Header().Set("Content-Type", image.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(image.Data)
		}
		return
	}

	if len(parts) > 3 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}

// readImage returns the uploaded bytes from either a multipart "image" field
// or the raw request body. Reads stop one byte past the configured limit so
// the service can reject oversized uploads.
func (s *HTTPServer) readImage(r *http.Request) ([]byte, error) {
	limit := s.service.maxImageBytes()
	var source io.Reader = r.Body
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(nil, r.Body, limit+(1<<20))
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, domainError(http.StatusBadRequest, "INVALID_BODY", "multipart field image is required", nil)
		}
		defer file.Close()
		source = file
	}
	if source == nil {
		return nil, domainError(http.StatusBadRequest, "INVALID_BODY", "image body is required", nil)
	}
	data, err := io.ReadAll(io.LimitReader(source, limit+1))
	if err != nil {
		return nil, domainError(http.StatusBadRequest, "INVALID_BODY", "could not read image", nil)
	}
	return data, nil
}

// parseExpand reads the boolean expansion flags. Absent flags default to
// true; flags a resource does not know are ignored.
func parseExpand(r *http.Request, keys []string) (store.Expand, error) {
	expand := store.ExpandAll
	query := r.URL.Query()
	for _, key := range keys {
		raw := strings.TrimSpace(query.Get(key))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return store.Expand{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR",
				fmt.Sprintf("%s must be true or false", key), nil)
		}
		switch key {
		case "tags":
			expand.Tags = value
		case "roadmaps":
			expand.Roadmaps = value
		case "milestones":
			expand.Milestones = value
		}
	}
	return expand, nil
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
		// Store conflicts also name the blocking table at the top level.
		if fields, ok := details.(map[string]any); ok {
			if table, ok := fields["table"]; ok {
				response["table"] = table
			}
		}
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) || errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
