package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantumedge/internal/api/handlers"
	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/report"
	"github.com/wonny/quantumedge/internal/scoring"
	"github.com/wonny/quantumedge/internal/scoring/scoringtest"
	"github.com/wonny/quantumedge/internal/strategyconfig"
	"github.com/wonny/quantumedge/pkg/logger"
)

var testPresetCapital int64 = 50_000_000

type testAPI struct {
	router http.Handler
	store  *dashboard.Store
	fake   *scoringtest.Fake
}

func newTestAPI(t *testing.T, responses ...scoringtest.Response) *testAPI {
	t.Helper()
	log := logger.Nop()
	fake := scoringtest.NewFake(responses...)
	store := dashboard.NewStore(fake, log)

	stream := handlers.NewStreamHandler(store, 0, log)
	t.Cleanup(stream.Close)

	dh := handlers.NewDashboardHandler(store, report.NewService(log), "Laporan", log)
	catalog, err := strategyconfig.NewCatalog(&strategyconfig.File{
		Meta: strategyconfig.Meta{StrategyID: "test"},
		Presets: []strategyconfig.Preset{{
			ID:      "value",
			Name:    "Value",
			Capital: &testPresetCapital,
			Weights: strategyconfig.PresetWeights{PER: 50, PBV: 30, ROE: 20},
		}},
	})
	require.NoError(t, err)
	ph := handlers.NewPresetHandler(store, catalog, log)
	return &testAPI{router: NewRouter(dh, ph, stream, log), store: store, fake: fake}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestHealthCheck(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetState_Initial(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "GET", "/api/state", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap dashboard.Snapshot
	decode(t, w, &snap)
	assert.Equal(t, dashboard.StateEmpty, snap.State)
	assert.Equal(t, "10.000.000", snap.Capital)
	assert.Equal(t, 30, snap.Config.Weights.PER)
}

func TestGetAdvice_DoesNotMutate(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "GET", "/api/advice?capital=Rp%2075.000.000", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.AdviceResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(75_000_000), resp.Capital)
	assert.Equal(t, "high_end", string(resp.Advice.Tier))
	assert.Equal(t, int64(10_000_000), a.store.Config().Capital)
}

func TestSetCapital(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name string
		body string
		code int
		want int64
	}{
		{"text", `{"text":"1.500.000"}`, http.StatusOK, 1_500_000},
		{"text without digits", `{"text":"abc"}`, http.StatusOK, 0},
		{"value", `{"value":2500000}`, http.StatusOK, 2_500_000},
		{"negative value", `{"value":-10}`, http.StatusOK, 0},
		{"empty", `{}`, http.StatusBadRequest, 0},
		{"bad json", `{"text":`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, "PUT", "/api/config/capital", tt.body)
			require.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				var resp handlers.AdviceResponse
				decode(t, w, &resp)
				assert.Equal(t, tt.want, resp.Capital)
				assert.Equal(t, tt.want, a.store.Config().Capital)
			}
		})
	}
}

func TestSetWeight(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "PUT", "/api/config/weights/roe", `{"value":45}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45, a.store.Config().Weights.ROE)

	assert.Equal(t, http.StatusBadRequest, a.do(t, "PUT", "/api/config/weights/roe", `{"value":42}`).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, "PUT", "/api/config/weights/roe", `{"value":105}`).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, "PUT", "/api/config/weights/beta", `{"value":10}`).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, "PUT", "/api/config/weights/roe", `{}`).Code)

	w = a.do(t, "POST", "/api/config/weights/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, a.store.Config().Weights.ROE)
}

func TestRunAnalysis_Flow(t *testing.T) {
	a := newTestAPI(t, scoringtest.Response{Result: scoringtest.SampleResult()})

	// No view before the first result
	assert.Equal(t, http.StatusConflict, a.do(t, "POST", "/api/view/toggle", "").Code)
	assert.Equal(t, http.StatusConflict, a.do(t, "GET", "/api/view/portfolio", "").Code)
	assert.Equal(t, http.StatusConflict, a.do(t, "GET", "/api/report", "").Code)

	w := a.do(t, "POST", "/api/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap dashboard.Snapshot
	decode(t, w, &snap)
	assert.Equal(t, dashboard.StatePortfolio, snap.State)
	assert.Len(t, snap.Cards, 2)

	w = a.do(t, "GET", "/api/view/market", "")
	require.Equal(t, http.StatusOK, w.Code)
	var market struct {
		Rows []dashboard.Row `json:"rows"`
	}
	decode(t, w, &market)
	assert.Len(t, market.Rows, 3)

	w = a.do(t, "PUT", "/api/view", `{"mode":"market"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	assert.Equal(t, dashboard.StateMarket, snap.State)

	assert.Equal(t, http.StatusBadRequest, a.do(t, "PUT", "/api/view", `{"mode":"chart"}`).Code)
}

func TestRunAnalysis_FailureBodyWhenNoticeAlreadyDismissed(t *testing.T) {
	a := newTestAPI(t, scoringtest.Response{Err: &scoring.StatusError{Code: 500}})

	// Dismiss the notice as soon as it is raised, before the handler answers
	unsubscribe := a.store.Subscribe(func(snap dashboard.Snapshot) {
		if snap.Notice != nil {
			a.store.DismissNotice()
		}
	})
	defer unsubscribe()

	w := a.do(t, "POST", "/api/analysis", "")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, dashboard.FailureMessage, body["error"])

	_, ok := a.store.Notice()
	assert.False(t, ok)
}

func TestRunAnalysis_Failure(t *testing.T) {
	a := newTestAPI(t, scoringtest.Response{Err: &scoring.StatusError{Code: 500}})

	w := a.do(t, "POST", "/api/analysis", "")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, dashboard.FailureMessage, body["error"])
	assert.Contains(t, body["detail"], "HTTP 500")

	w = a.do(t, "GET", "/api/state", "")
	var snap dashboard.Snapshot
	decode(t, w, &snap)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, dashboard.StateEmpty, snap.State)

	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", "/api/notice", "").Code)
	_, ok := a.store.Notice()
	assert.False(t, ok)
}

func TestRunAnalysis_InFlight(t *testing.T) {
	a := newTestAPI(t, scoringtest.Response{Result: scoringtest.SampleResult()})
	a.fake.Hold()

	done := make(chan int, 1)
	go func() {
		done <- a.do(t, "POST", "/api/analysis", "").Code
	}()
	<-a.fake.Started()

	assert.Equal(t, http.StatusConflict, a.do(t, "POST", "/api/analysis", "").Code)
	assert.Equal(t, 1, a.fake.Calls())

	a.fake.Release()
	assert.Equal(t, http.StatusOK, <-done)
}

func TestSelection(t *testing.T) {
	a := newTestAPI(t, scoringtest.Response{Result: scoringtest.SampleResult()})
	require.Equal(t, http.StatusOK, a.do(t, "POST", "/api/analysis", "").Code)

	assert.Equal(t, http.StatusNotFound, a.do(t, "GET", "/api/selection", "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, "POST", "/api/selection/ASII.JK", "").Code)

	w := a.do(t, "POST", "/api/selection/GOTO.JK", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail dashboard.Detail
	decode(t, w, &detail)
	assert.Equal(t, "GOTO.JK", detail.ID)
	assert.Equal(t, "G", detail.Initial)

	assert.Equal(t, http.StatusOK, a.do(t, "GET", "/api/selection", "").Code)
	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", "/api/selection", "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, "GET", "/api/selection", "").Code)
}

func TestReports(t *testing.T) {
	a := newTestAPI(t, scoringtest.Response{Result: scoringtest.SampleResult()})
	require.Equal(t, http.StatusOK, a.do(t, "POST", "/api/analysis", "").Code)

	w := a.do(t, "GET", "/api/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rep dashboard.Report
	decode(t, w, &rep)
	assert.Equal(t, "Laporan", rep.Title)
	assert.Len(t, rep.Rows, 3)

	w = a.do(t, "GET", "/api/report.txt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), report.AppendixTitle)

	w = a.do(t, "GET", "/api/report.pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestPresets(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "GET", "/api/presets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Presets []strategyconfig.Preset `json:"presets"`
		Hash    string                  `json:"hash"`
	}
	decode(t, w, &list)
	require.Len(t, list.Presets, 2)
	assert.Equal(t, strategyconfig.DefaultPresetID, list.Presets[0].ID)
	assert.Equal(t, "value", list.Presets[1].ID)
	assert.NotEmpty(t, list.Hash)

	w = a.do(t, "POST", "/api/presets/value", "")
	require.Equal(t, http.StatusOK, w.Code)
	cfg := a.store.Config()
	assert.Equal(t, int64(50_000_000), cfg.Capital)
	assert.Equal(t, 50, cfg.Weights.PER)
	assert.Equal(t, 0, cfg.Weights.Volume)

	w = a.do(t, "POST", "/api/presets/default", "")
	require.Equal(t, http.StatusOK, w.Code)
	cfg = a.store.Config()
	assert.Equal(t, int64(50_000_000), cfg.Capital, "built-in preset keeps the capital")
	assert.Equal(t, 30, cfg.Weights.PER)

	w = a.do(t, "POST", "/api/presets/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
