package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/evpulse/internal/logger"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/services"
	"github.com/stwalsh4118/evpulse/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSource returns a fixed dataset.
type stubSource struct {
	vehicles []models.Vehicle
	rowErrs  []models.RowError
	err      error
}

func (s *stubSource) Name() string { return "stub:vehicles" }

func (s *stubSource) Load(ctx context.Context) (*models.LoadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	rowErrs := s.rowErrs
	if rowErrs == nil {
		rowErrs = []models.RowError{}
	}
	return &models.LoadResult{
		Vehicles: s.vehicles,
		Errors:   rowErrs,
		Meta:     models.LoadMeta{TotalRows: len(s.vehicles), ValidRows: len(s.vehicles)},
	}, nil
}

// MockPinger is a mock implementation of Pinger for testing
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// newTestService builds a service over src; when load is true the dataset is
// loaded before returning.
func newTestService(t *testing.T, src *stubSource, load bool) services.DashboardService {
	t.Helper()
	svc := services.NewDashboardService(src, store.New(20), logger.Nop(), services.Options{MaxChartItems: 10})
	if load {
		_, err := svc.Load(context.Background())
		require.NoError(t, err)
	}
	return svc
}

func newTestRouter(svc services.DashboardService, db Pinger) *gin.Engine {
	return NewRouter(RouterConfig{
		Service: svc,
		Log:     logger.Nop(),
		DB:      db,
		Origins: []string{"http://localhost:3000"},
		Env:     "test",
	})
}

func perform(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
