package datasets_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rolecast/rolecast/internal/datasets"
	"github.com/rolecast/rolecast/pkg/middleware"
	"github.com/rolecast/rolecast/pkg/pagination"
)

type mockSystem struct {
	listFn        func(ctx context.Context, page pagination.PageRequest, filters datasets.Filters) (*pagination.PageResult[datasets.Dataset], error)
	findFn        func(ctx context.Context, id uuid.UUID) (*datasets.Dataset, error)
	createFn      func(ctx context.Context, cmd datasets.CreateCommand) (*datasets.Dataset, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
	openFn        func(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	markTrainedFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler(maxUploadSize int64) *datasets.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters datasets.Filters) (*pagination.PageResult[datasets.Dataset], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*datasets.Dataset, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd datasets.CreateCommand) (*datasets.Dataset, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	return m.openFn(ctx, id)
}

func (m *mockSystem) MarkTrained(ctx context.Context, id uuid.UUID) error {
	return m.markTrainedFn(ctx, id)
}

func newTestHandler(sys *mockSystem) *datasets.Handler {
	return datasets.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		10*1024*1024,
	)
}

// setupMux applies the auth middleware in its disabled state so admin-gated
// routes see the anonymous admin identity.
func setupMux(h *datasets.Handler) http.Handler {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return middleware.Auth(&middleware.AuthConfig{Enabled: false})(mux)
}

const validCSV = "skills,qualification,experience_level,job_role\n" +
	"\"Python, SQL\",B.Tech,Entry,Data Analyst\n" +
	"\"Go, Docker\",M.Sc,Senior,Backend Engineer\n"

func sampleDataset() datasets.Dataset {
	return datasets.Dataset{
		ID:          uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Filename:    "candidates.csv",
		ContentType: "text/csv",
		SizeBytes:   int64(len(validCSV)),
		RowCount:    2,
		StorageKey:  "datasets/550e8400-e29b-41d4-a716-446655440000/candidates.csv",
		Status:      datasets.StatusUploaded,
		UploadedAt:  time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}
}

func createMultipartForm(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func TestHandlerList(t *testing.T) {
	ds := sampleDataset()
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, _ datasets.Filters) (*pagination.PageResult[datasets.Dataset], error) {
			result := pagination.NewPageResult([]datasets.Dataset{ds}, 1, 1, 20)
			return &result, nil
		},
	}

	mux := setupMux(newTestHandler(sys))

	t.Run("returns paginated list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/datasets", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[datasets.Dataset]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if result.Total != 1 {
			t.Errorf("total = %d, want 1", result.Total)
		}
		if len(result.Data) != 1 {
			t.Fatalf("data length = %d, want 1", len(result.Data))
		}
		if result.Data[0].ID != ds.ID {
			t.Errorf("id = %v, want %v", result.Data[0].ID, ds.ID)
		}
	})

	t.Run("passes query filters", func(t *testing.T) {
		var captured datasets.Filters
		sys.listFn = func(_ context.Context, _ pagination.PageRequest, f datasets.Filters) (*pagination.PageResult[datasets.Dataset], error) {
			captured = f
			result := pagination.NewPageResult([]datasets.Dataset{}, 0, 1, 20)
			return &result, nil
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/datasets?status=uploaded&filename=candidates", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Status == nil || *captured.Status != "uploaded" {
			t.Errorf("status filter = %v, want uploaded", captured.Status)
		}
		if captured.Filename == nil || *captured.Filename != "candidates" {
			t.Errorf("filename filter = %v, want candidates", captured.Filename)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	ds := sampleDataset()

	t.Run("returns dataset by id", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, id uuid.UUID) (*datasets.Dataset, error) {
				if id != ds.ID {
					return nil, datasets.ErrNotFound
				}
				return &ds, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/datasets/"+ds.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got datasets.Dataset
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != ds.ID {
			t.Errorf("id = %v, want %v", got.ID, ds.ID)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/datasets/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*datasets.Dataset, error) {
				return nil, datasets.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/datasets/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	ds := sampleDataset()

	t.Run("returns search results", func(t *testing.T) {
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, _ datasets.Filters) (*pagination.PageResult[datasets.Dataset], error) {
				result := pagination.NewPageResult([]datasets.Dataset{ds}, 1, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(datasets.SearchRequest{
			PageRequest: pagination.PageRequest{Page: 1, PageSize: 20},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/datasets/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[datasets.Dataset]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 1 {
			t.Errorf("total = %d, want 1", result.Total)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/datasets/search", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("normalizes pagination", func(t *testing.T) {
		var capturedPage pagination.PageRequest
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, _ datasets.Filters) (*pagination.PageResult[datasets.Dataset], error) {
				capturedPage = page
				result := pagination.NewPageResult([]datasets.Dataset{}, 0, page.Page, page.PageSize)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(datasets.SearchRequest{
			PageRequest: pagination.PageRequest{Page: 0, PageSize: 0},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/datasets/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedPage.Page != 1 {
			t.Errorf("page = %d, want 1 (normalized)", capturedPage.Page)
		}
		if capturedPage.PageSize != 20 {
			t.Errorf("page_size = %d, want 20 (default)", capturedPage.PageSize)
		}
	})
}

func TestHandlerUpload(t *testing.T) {
	ds := sampleDataset()

	t.Run("creates dataset from multipart form", func(t *testing.T) {
		var capturedCmd datasets.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd datasets.CreateCommand) (*datasets.Dataset, error) {
				capturedCmd = cmd
				return &ds, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, contentType := createMultipartForm(t, "candidates.csv", []byte(validCSV))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/datasets", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if capturedCmd.Filename != "candidates.csv" {
			t.Errorf("filename = %q, want candidates.csv", capturedCmd.Filename)
		}
		if capturedCmd.RowCount != 2 {
			t.Errorf("row_count = %d, want 2", capturedCmd.RowCount)
		}
		if capturedCmd.ContentType != "text/csv" {
			t.Errorf("content_type = %q, want text/csv", capturedCmd.ContentType)
		}
	})

	t.Run("missing file field returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.Close()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/datasets", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("non-admin identity returns 403", func(t *testing.T) {
		h := newTestHandler(&mockSystem{})
		mux := http.NewServeMux()
		group := h.Routes()
		for _, route := range group.Routes {
			mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
		}

		body, contentType := createMultipartForm(t, "candidates.csv", []byte(validCSV))

		// No auth middleware: the request context carries no identity.
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/datasets", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("malformed csv returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		body, contentType := createMultipartForm(t, "bad.csv", []byte("skills,qualification\nPython,B.Tech\n"))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/datasets", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerDownload(t *testing.T) {
	ds := sampleDataset()

	t.Run("streams stored file", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*datasets.Dataset, error) {
				return &ds, nil
			},
			openFn: func(_ context.Context, _ uuid.UUID) (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader(validCSV)), nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/datasets/"+ds.ID.String()+"/download", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/csv" {
			t.Errorf("content type = %q, want text/csv", got)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "candidates.csv") {
			t.Errorf("content disposition = %q, want attachment filename", got)
		}
		if rec.Body.String() != validCSV {
			t.Errorf("body does not match stored file")
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*datasets.Dataset, error) {
				return nil, datasets.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/datasets/"+uuid.New().String()+"/download", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	ds := sampleDataset()

	t.Run("deletes dataset", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, id uuid.UUID) error {
				if id != ds.ID {
					return datasets.ErrNotFound
				}
				return nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/datasets/"+ds.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ uuid.UUID) error {
				return datasets.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/datasets/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
