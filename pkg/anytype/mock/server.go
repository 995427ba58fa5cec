package mock

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/anytype-sdk/anytype_sdk_go/internal/anytypeapi"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
	defaultTypeKey   = "page"
)

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires requests to carry "Authorization: Bearer <key>".
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithClock overrides the clock used for timestamps (useful in tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Server) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithLogger sets the logger for request handling errors.
func WithLogger(l hclog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server serves a subset of the Anytype REST API from a Store.
type Server struct {
	store  Store
	apiKey string
	now    func() time.Time
	log    hclog.Logger
	router chi.Router
}

// NewServer builds a Server over store.
func NewServer(store Store, opts ...Option) *Server {
	s := &Server{
		store: store,
		now: func() time.Time {
			return time.Now().UTC()
		},
		log: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Route("/v1/spaces/{spaceID}", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/objects", s.listObjects)
		r.Post("/objects", s.createObject)
		r.Get("/objects/{objectID}", s.getObject)
		r.Patch("/objects/{objectID}", s.updateObject)
		r.Delete("/objects/{objectID}", s.deleteObject)

		r.Get("/tables/{tableID}/rows", s.listRows)
		r.Post("/tables/{tableID}/rows", s.createRow)
		r.Get("/tables/{tableID}/rows/{rowID}", s.getRow)
		r.Patch("/tables/{tableID}/rows/{rowID}", s.updateRow)
		r.Delete("/tables/{tableID}/rows/{rowID}", s.deleteRow)
	})
	return r
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+s.apiKey {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing API key")
			return
		}
		if strings.TrimSpace(r.Header.Get("Anytype-Version")) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "missing Anytype-Version header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createObject(w http.ResponseWriter, r *http.Request) {
	spaceID := chi.URLParam(r, "spaceID")
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	now := s.timestamp()
	doc := Document{
		"object":             "object",
		"id":                 uuid.NewString(),
		"space_id":           spaceID,
		"name":               "",
		"body":               "",
		"type_key":           defaultTypeKey,
		"archived":           false,
		"created_date":       now,
		"last_modified_date": now,
	}
	if !applyObjectFields(w, doc, payload) {
		return
	}
	if err := s.store.Put(r.Context(), objectCollection(spaceID), doc.ID(), doc); err != nil {
		s.internalError(w, "create object", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{anytypeapi.KeyObject: doc})
}

func (s *Server) getObject(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r, objectCollection(chi.URLParam(r, "spaceID")), chi.URLParam(r, "objectID"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{anytypeapi.KeyObject: doc})
}

func (s *Server) updateObject(w http.ResponseWriter, r *http.Request) {
	collection := objectCollection(chi.URLParam(r, "spaceID"))
	doc, ok := s.lookup(w, r, collection, chi.URLParam(r, "objectID"))
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	if !applyObjectFields(w, doc, payload) {
		return
	}
	doc["last_modified_date"] = s.timestamp()
	if err := s.store.Put(r.Context(), collection, doc.ID(), doc); err != nil {
		s.internalError(w, "update object", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{anytypeapi.KeyObject: doc})
}

// deleteObject archives the object. Archiving twice returns the same document.
func (s *Server) deleteObject(w http.ResponseWriter, r *http.Request) {
	collection := objectCollection(chi.URLParam(r, "spaceID"))
	doc, ok := s.lookup(w, r, collection, chi.URLParam(r, "objectID"))
	if !ok {
		return
	}
	if archived, _ := doc["archived"].(bool); !archived {
		doc["archived"] = true
		doc["last_modified_date"] = s.timestamp()
		if err := s.store.Put(r.Context(), collection, doc.ID(), doc); err != nil {
			s.internalError(w, "archive object", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{anytypeapi.KeyObject: doc})
}

func (s *Server) listObjects(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context(), objectCollection(chi.URLParam(r, "spaceID")))
	if err != nil {
		s.internalError(w, "list objects", err)
		return
	}
	active := docs[:0]
	for _, doc := range docs {
		if archived, _ := doc["archived"].(bool); !archived {
			active = append(active, doc)
		}
	}
	s.writePage(w, r, active)
}

func (s *Server) createRow(w http.ResponseWriter, r *http.Request) {
	spaceID, tableID := chi.URLParam(r, "spaceID"), chi.URLParam(r, "tableID")
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	values, ok := rowValues(w, payload)
	if !ok {
		return
	}
	now := s.timestamp()
	doc := Document{
		"object":             "row",
		"id":                 uuid.NewString(),
		"space_id":           spaceID,
		"table_id":           tableID,
		"values":             values,
		"created_date":       now,
		"last_modified_date": now,
	}
	if err := s.store.Put(r.Context(), rowCollection(spaceID, tableID), doc.ID(), doc); err != nil {
		s.internalError(w, "create row", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{anytypeapi.KeyRow: doc})
}

func (s *Server) getRow(w http.ResponseWriter, r *http.Request) {
	collection := rowCollection(chi.URLParam(r, "spaceID"), chi.URLParam(r, "tableID"))
	doc, ok := s.lookup(w, r, collection, chi.URLParam(r, "rowID"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{anytypeapi.KeyRow: doc})
}

func (s *Server) updateRow(w http.ResponseWriter, r *http.Request) {
	collection := rowCollection(chi.URLParam(r, "spaceID"), chi.URLParam(r, "tableID"))
	doc, ok := s.lookup(w, r, collection, chi.URLParam(r, "rowID"))
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	values, ok := rowValues(w, payload)
	if !ok {
		return
	}
	doc["values"] = values
	doc["last_modified_date"] = s.timestamp()
	if err := s.store.Put(r.Context(), collection, doc.ID(), doc); err != nil {
		s.internalError(w, "update row", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{anytypeapi.KeyRow: doc})
}

func (s *Server) deleteRow(w http.ResponseWriter, r *http.Request) {
	collection := rowCollection(chi.URLParam(r, "spaceID"), chi.URLParam(r, "tableID"))
	doc, ok := s.lookup(w, r, collection, chi.URLParam(r, "rowID"))
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), collection, doc.ID()); err != nil {
		s.internalError(w, "delete row", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{anytypeapi.KeyRow: doc})
}

func (s *Server) listRows(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context(), rowCollection(chi.URLParam(r, "spaceID"), chi.URLParam(r, "tableID")))
	if err != nil {
		s.internalError(w, "list rows", err)
		return
	}
	s.writePage(w, r, docs)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, collection, id string) (Document, bool) {
	doc, err := s.store.Get(r.Context(), collection, id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "resource "+id+" not found")
		return nil, false
	}
	if err != nil {
		s.internalError(w, "lookup", err)
		return nil, false
	}
	return doc, true
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, docs []Document) {
	offset, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		ci, _ := docs[i]["created_date"].(string)
		cj, _ := docs[j]["created_date"].(string)
		return ci < cj
	})

	total := len(docs)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	page := docs[start:end]
	if page == nil {
		page = []Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		anytypeapi.KeyData: page,
		"pagination": map[string]any{
			"total":    total,
			"offset":   offset,
			"limit":    limit,
			"has_more": end < total,
		},
	})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_server_error", err.Error())
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func pageParams(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	limit = defaultListLimit
	q := r.URL.Query()
	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxListLimit {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be between 1 and "+strconv.Itoa(maxListLimit))
			return 0, 0, false
		}
		limit = v
	}
	return offset, limit, true
}

func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	defer r.Body.Close()
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body must be a JSON object")
		return nil, false
	}
	return payload, true
}

func applyObjectFields(w http.ResponseWriter, doc Document, payload map[string]any) bool {
	for _, key := range []string{"name", "body", "type_key"} {
		raw, present := payload[key]
		if !present {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", key+" must be a string")
			return false
		}
		if key == "type_key" && strings.TrimSpace(v) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "type_key must not be empty")
			return false
		}
		doc[key] = v
	}
	if icon, present := payload["icon"]; present {
		doc["icon"] = icon
	}
	if props, present := payload["properties"]; present {
		doc["properties"] = props
	}
	return true
}

func rowValues(w http.ResponseWriter, payload map[string]any) (map[string]any, bool) {
	values, ok := payload["values"].(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "values must be a JSON object")
		return nil, false
	}
	return values, true
}

func objectCollection(spaceID string) string {
	return "spaces/" + spaceID + "/objects"
}

func rowCollection(spaceID, tableID string) string {
	return "spaces/" + spaceID + "/tables/" + tableID + "/rows"
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, anytypeapi.NewError(status, code, message))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
