package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"salesheatmap/internal/dataprocessing"
	apierrors "salesheatmap/internal/errors"
	"salesheatmap/internal/middleware"
	"salesheatmap/internal/services"
	"salesheatmap/internal/shared/testutil"
)

// MockSalesDataService is a mock implementation of SalesDataServiceInterface
type MockSalesDataService struct {
	mock.Mock
}

func (m *MockSalesDataService) Open(ctx context.Context) (*os.File, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*os.File), args.Error(1)
}

func (m *MockSalesDataService) Hourly(ctx context.Context) ([]dataprocessing.ResultRow, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dataprocessing.ResultRow), args.Error(1)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSalesRouter(svc SalesDataServiceInterface) http.Handler {
	h := NewSalesHandler(svc, testLogger(), apierrors.NewErrorHandler(testLogger(), false))
	r := chi.NewRouter()
	r.Mount("/api/sales-data", h.Routes())
	return r
}

func TestSalesHandler_GetSalesData(t *testing.T) {
	content := "[\n  {\n    \"time\": \"00:00\",\n    \"Monday\": 0.0\n  }\n]\n"
	path := filepath.Join(t.TempDir(), "processed_sales_data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tests := []struct {
		name       string
		setupMock  func(*MockSalesDataService)
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{
			name: "serves file verbatim",
			setupMock: func(m *MockSalesDataService) {
				f, err := os.Open(path)
				require.NoError(t, err)
				m.On("Open").Return(f, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   content,
		},
		{
			name: "missing file",
			setupMock: func(m *MockSalesDataService) {
				m.On("Open").Return(nil, services.ErrNoSalesData)
			},
			wantStatus: http.StatusNotFound,
			wantType:   apierrors.TypeDataNotFound,
		},
		{
			name: "permission error",
			setupMock: func(m *MockSalesDataService) {
				m.On("Open").Return(nil, os.ErrPermission)
			},
			wantStatus: http.StatusInternalServerError,
			wantType:   apierrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSalesDataService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			newSalesRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales-data", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantType != "" {
				var problem map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
				assert.Equal(t, tt.wantType, problem["type"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestSalesHandler_GetHourly(t *testing.T) {
	svc := new(MockSalesDataService)
	svc.On("Hourly").Return([]dataprocessing.ResultRow{
		{Time: "08", Values: map[string]float64{"Monday": 150, "Tuesday": 0}},
	}, nil)

	rec := httptest.NewRecorder()
	newSalesRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales-data/hourly", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"time":"08","Monday":150.0,"Tuesday":0.0}]`, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Monday": 150.0`)
	svc.AssertExpectations(t)
}

func TestSalesHandler_GetHourly_Corrupt(t *testing.T) {
	svc := new(MockSalesDataService)
	svc.On("Hourly").Return(nil, services.ErrCorruptSalesData)

	rec := httptest.NewRecorder()
	newSalesRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales-data/hourly", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	svc := new(MockHealthService)
	svc.On("Check").Return(services.HealthStatus{
		Status:    services.StatusDegraded,
		Version:   "dev",
		SalesData: services.FileStatus{Path: "processed_sales_data.json"},
	})

	rec := httptest.NewRecorder()
	NewHealthHandler(svc, testLogger()).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, services.StatusDegraded, body.Status)
	assert.False(t, body.SalesData.Exists)
	svc.AssertExpectations(t)
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>heatmap</h1>"), 0644))

	h := NewStaticHandler(dir, testLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "heatmap")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSalesHandler_GetSalesData_LogsRequestID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_sales_data.json")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)

	svc := new(MockSalesDataService)
	svc.On("Open").Return(f, nil)

	logger, handler := testutil.NewTestLogger(t)
	h := NewSalesHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount("/api/sales-data", h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/sales-data", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-9")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	testutil.AssertLogContains(t, handler, slog.LevelDebug, "Served sales data")
	testutil.AssertLogAttr(t, handler, "request_id", "req-9")
	testutil.AssertLogAttr(t, handler, "component", "sales_handler")
}
