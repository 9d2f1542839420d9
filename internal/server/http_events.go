package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/eventlog/internal/model"
	"github.com/alfredjeanlab/eventlog/internal/recorder"
)

// createEventInput is the body of POST /v1/events.
type createEventInput struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedBy int64           `json:"created_by,omitempty"`
	Ref       int64           `json:"ref,omitempty"`
	Recorded  string          `json:"recorded,omitempty"`
}

// handleCreateEvent handles POST /v1/events.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in createEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if string(in.Data) == "null" {
		in.Data = nil
	}

	id, err := s.rec.Create(r.Context(), recorder.CreateParams{
		Type:      in.Type,
		Data:      in.Data,
		CreatedBy: in.CreatedBy,
		Ref:       in.Ref,
		Recorded:  in.Recorded,
	})
	if err != nil {
		s.writeRecorderError(w, "create event", err)
		return
	}
	if id == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"id": 0, "skipped": true})
		return
	}

	ev, err := s.rec.GetByID(r.Context(), id)
	if err != nil {
		s.writeRecorderError(w, "get event", err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// handleListEvents handles GET /v1/events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	f, err := eventFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.rec.GetAll(r.Context(), f)
	if err != nil {
		s.writeRecorderError(w, "list events", err)
		return
	}
	total, err := s.rec.CountAll(r.Context(), f)
	if err != nil {
		s.writeRecorderError(w, "count events", err)
		return
	}

	// Ensure events is never null in JSON output.
	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events":   events,
		"total":    total,
		"page":     f.Page,
		"per_page": f.PerPage,
	})
}

// handleCountEvents handles GET /v1/events/count.
func (s *Server) handleCountEvents(w http.ResponseWriter, r *http.Request) {
	f, err := eventFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := s.rec.CountAll(r.Context(), f)
	if err != nil {
		s.writeRecorderError(w, "count events", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// handleGetEvent handles GET /v1/events/{id}.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ev, err := s.rec.GetByID(r.Context(), id)
	if err != nil {
		s.writeRecorderError(w, "get event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// handleDeleteEvent handles DELETE /v1/events/{id}.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.rec.Destroy(r.Context(), id); err != nil {
		s.writeRecorderError(w, "delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// eventFilter builds a filter from the list query parameters. Every bad
// parameter is reported, not just the first.
func eventFilter(r *http.Request) (model.EventFilter, error) {
	q := r.URL.Query()
	f := model.EventFilter{
		Keywords: q.Get("keywords"),
		Expr:     q.Get("filter"),
		Sort:     q.Get("order_by"),
	}

	var ve model.ValidationError
	f.Page = intParam(&ve, q.Get("page"), "page")
	f.PerPage = intParam(&ve, q.Get("per_page"), "per_page")
	if t := q.Get("type"); t != "" {
		f.Where = append(f.Where, model.Condition{Column: "type", Value: t})
	}
	if u := q.Get("user"); u != "" {
		id, err := strconv.ParseInt(u, 10, 64)
		if err != nil {
			ve.Add("user", "must be an integer")
		} else {
			f.Where = append(f.Where, model.Condition{Column: "created_by", Value: id})
		}
	}
	return f, ve.Err()
}

func intParam(ve *model.ValidationError, v, name string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		ve.Add(name, "must be an integer")
		return 0
	}
	return n
}
