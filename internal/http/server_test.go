package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tally/internal/services"
	"tally/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewLedgerService(memory.New()).WithClock(func() time.Time {
		return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	})
	return NewServer(":0", svc, time.Minute)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func createRecord(t *testing.T, s *Server, amount, category, date string) int64 {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/records", recordPayload{
		Amount:   amount,
		Category: category,
		Date:     date,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body)
	}
	var out map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return out["id"]
}

func TestCreateAndList(t *testing.T) {
	s := newTestServer(t)

	id := createRecord(t, s, "12.34", "Food", "2024-01-15")

	rec := doJSON(t, s, http.MethodGet, "/api/records", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d", rec.Code)
	}
	var records []recordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(records) != 1 || records[0].ID != id || records[0].Amount != "12.34" || records[0].Date != "2024-01-15" {
		t.Fatalf("unexpected list payload: %+v", records)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []recordPayload{
		{Amount: "-5", Category: "Food"},
		{Amount: "0", Category: "Food"},
		{Amount: "abc", Category: "Food"},
		{Amount: "10", Category: "   "},
		{Amount: "10", Category: "Food", Date: "15/01/2024"},
	}
	for i, p := range cases {
		rec := doJSON(t, s, http.MethodPost, "/api/records", p)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/records", nil)
	var records []recordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("rejected input must not commit, got %+v", records)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	id := createRecord(t, s, "10", "Food", "2024-01-15")

	rec := doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/records/%d", id), recordPayload{Amount: "20", Category: "Books"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/records/9999", recordPayload{Amount: "20", Category: "Books"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update of missing id expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/records/%d", id), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete returned %d", rec.Code)
	}
	// Idempotent second delete.
	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/records/%d", id), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("second delete expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/records/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id expected 400, got %d", rec.Code)
	}
}

func TestOverview(t *testing.T) {
	s := newTestServer(t)
	createRecord(t, s, "10", "Food", "2024-01-01")
	createRecord(t, s, "20", "Food", "2024-01-15")
	createRecord(t, s, "5", "Books", "2024-02-01")

	rec := doJSON(t, s, http.MethodGet, "/api/overview?filter=month", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview returned %d: %s", rec.Code, rec.Body)
	}
	var out overviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if out.Total != "30.00" || len(out.Records) != 2 {
		t.Fatalf("month overview mismatch: %+v", out)
	}
	if len(out.CategoryTotals) != 1 || out.CategoryTotals[0].Category != "Food" || out.CategoryTotals[0].Total != "30.00" {
		t.Fatalf("month category totals mismatch: %+v", out.CategoryTotals)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/overview", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if out.Filter != "all" || out.Total != "35.00" || len(out.CategoryTotals) != 2 {
		t.Fatalf("default overview mismatch: %+v", out)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/overview?filter=yearly", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed filter expected 400, got %d", rec.Code)
	}
}

func TestOverviewCacheInvalidatedByMutation(t *testing.T) {
	s := newTestServer(t)
	createRecord(t, s, "10", "Food", "2024-01-01")

	rec := doJSON(t, s, http.MethodGet, "/api/overview?filter=all", nil)
	var before overviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode: %v", err)
	}

	createRecord(t, s, "5", "Books", "2024-01-02")

	rec = doJSON(t, s, http.MethodGet, "/api/overview?filter=all", nil)
	var after overviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Total != "15.00" {
		t.Fatalf("cached overview served stale total %s after mutation", after.Total)
	}
	if before.Total != "10.00" {
		t.Fatalf("unexpected initial total %s", before.Total)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz returned %d", rec.Code)
	}
}
