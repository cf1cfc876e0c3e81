package http

import (
	"encoding/json"
	"net/http"
	"time"

	"tally/internal/core"
)

type (
	recordPayload struct {
		Amount   string `json:"amount"`
		Category string `json:"category"`
		Note     string `json:"note,omitempty"`
		Date     string `json:"date,omitempty"`
	}

	recordResponse struct {
		ID       int64  `json:"id"`
		Amount   string `json:"amount"`
		Category string `json:"category"`
		Note     string `json:"note,omitempty"`
		Date     string `json:"date"`
	}

	categoryTotalResponse struct {
		Category string `json:"category"`
		Total    string `json:"total"`
	}

	// category_totals is an ordered array, not a map: first-appearance
	// order among the filtered records is part of the contract.
	overviewResponse struct {
		Filter         string                  `json:"filter"`
		Records        []recordResponse        `json:"records"`
		Total          string                  `json:"total"`
		CategoryTotals []categoryTotalResponse `json:"category_totals"`
	}
)

func toRecordResponse(r core.Record) recordResponse {
	return recordResponse{
		ID:       r.ID,
		Amount:   r.Amount.String(),
		Category: r.Category,
		Note:     r.Note,
		Date:     r.Date.String(),
	}
}

// parsePayload decodes and normalizes a create/update body. The returned
// date is zero when the field was omitted.
func parsePayload(r *http.Request) (amount core.Money, category, note string, date core.Date, err error) {
	var p recordPayload
	if err = json.NewDecoder(r.Body).Decode(&p); err != nil {
		return
	}
	if amount, err = core.ParseMoney(p.Amount); err != nil {
		return
	}
	if p.Date != "" {
		if date, err = core.ParseDate(p.Date); err != nil {
			return
		}
	}
	return amount, p.Category, p.Note, date, nil
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	amount, category, note, date, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := s.service.AddRecord(r.Context(), amount, category, note, date)
	if err != nil {
		writeError(w, err)
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Records(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	amount, category, note, _, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.service.EditRecord(r.Context(), id, amount, category, note); err != nil {
		writeError(w, err)
		return
	}

	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.service.RemoveRecord(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("filter")
	if raw == "" {
		raw = string(core.FilterAll)
	}
	filter, err := core.ParseFilter(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	// Keyed by filter and day: the projection of WEEK/MONTH can change at
	// midnight even without mutations.
	cacheKey := string(filter) + "|" + time.Now().Format("2006-01-02")
	if cached, ok := s.overviewCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	projection, err := s.service.Overview(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := overviewResponse{
		Filter:         string(filter),
		Records:        make([]recordResponse, 0, len(projection.Records)),
		Total:          projection.Total.String(),
		CategoryTotals: make([]categoryTotalResponse, 0, len(projection.ByCategory)),
	}
	for _, rec := range projection.Records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	for _, ct := range projection.ByCategory {
		resp.CategoryTotals = append(resp.CategoryTotals, categoryTotalResponse{
			Category: ct.Category,
			Total:    ct.Total.String(),
		})
	}

	s.overviewCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}
