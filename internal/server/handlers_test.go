package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gssantosss/horariosautomaticosloga/internal/history"
	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
	"github.com/gssantosss/horariosautomaticosloga/internal/sheet"
)

const routeCSV = "ID,SETOR,TURNO,HORARIOSEG,ORDEMSEG\n" +
	"1,PR18,NOTURNO,23:30,1\n" +
	"2,PR18,NOTURNO,00:15,2\n" +
	"3,PR18,NOTURNO,00:45,3\n"

type fakeRecorder struct {
	mu   sync.Mutex
	runs []*history.Run
}

func (f *fakeRecorder) CreateRun(_ context.Context, r *history.Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, r)
	return nil
}

func newTestServer(t *testing.T, rec Recorder) http.Handler {
	t.Helper()
	srv := New(Config{
		Addr: ":0",
		Handler: HandlerConfig{
			Options:        schedule.DefaultOptions(),
			CountMode:      schedule.CountOrders,
			MaxUploadBytes: 1 << 20,
			Cache:          NewResultCache(16, time.Minute, discardLogger()),
			Recorder:       rec,
		},
	})
	return srv.Handler()
}

func upload(t *testing.T, target, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(FileFormField, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestNormalize_JSON(t *testing.T) {
	rec := &fakeRecorder{}
	h := newTestServer(t, rec)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, upload(t, "/v1/normalize", "rota PR18.csv", []byte(routeCSV)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var report sheet.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.NotNil(t, report.Sector)
	assert.Equal(t, "PR18", report.Sector.Sector)
	assert.Equal(t, 3, report.Sector.Points)
	assert.Equal(t, "SEG", report.Frequency)
	assert.Equal(t, 2, report.TotalGaps)
	assert.True(t, report.Days[0].Crosses)
	assert.Len(t, report.Agenda, 3)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, "rota PR18.csv", rec.runs[0].Source)
	assert.Len(t, rec.runs[0].Digest, 64)
}

func TestNormalize_CacheHit(t *testing.T) {
	rec := &fakeRecorder{}
	h := newTestServer(t, rec)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, upload(t, "/v1/normalize", "rota.csv", []byte(routeCSV)))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, upload(t, "/v1/normalize", "rota.csv", []byte(routeCSV)))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	// Different parameters miss the cache.
	third := httptest.NewRecorder()
	h.ServeHTTP(third, upload(t, "/v1/normalize?gap=60", "rota.csv", []byte(routeCSV)))
	require.Equal(t, http.StatusOK, third.Code)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))

	var report sheet.Report
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &report))
	assert.Equal(t, 0, report.TotalGaps)

	// Cache hits are not recorded again.
	assert.Len(t, rec.runs, 2)
}

func TestNormalize_XLSX(t *testing.T) {
	h := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, upload(t, "/v1/normalize?format=xlsx", "rota.csv", []byte(routeCSV)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "rota_agenda.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), sheet.AgendaSheet)
}

func TestNormalize_Errors(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name     string
		target   string
		filename string
		data     []byte
		status   int
	}{
		{name: "bad format", target: "/v1/normalize?format=pdf", filename: "rota.csv", data: []byte(routeCSV), status: http.StatusBadRequest},
		{name: "bad gap", target: "/v1/normalize?gap=-1", filename: "rota.csv", data: []byte(routeCSV), status: http.StatusBadRequest},
		{name: "bad hour", target: "/v1/normalize?evening=25", filename: "rota.csv", data: []byte(routeCSV), status: http.StatusBadRequest},
		{name: "morning after evening", target: "/v1/normalize?morning=20", filename: "rota.csv", data: []byte(routeCSV), status: http.StatusBadRequest},
		{name: "bad policy", target: "/v1/normalize?crossing=always", filename: "rota.csv", data: []byte(routeCSV), status: http.StatusBadRequest},
		{name: "unsupported file", target: "/v1/normalize", filename: "rota.pdf", data: []byte("%PDF"), status: http.StatusUnprocessableEntity},
		{name: "corrupt workbook", target: "/v1/normalize", filename: "rota.xlsx", data: []byte("not a zip"), status: http.StatusUnprocessableEntity},
		{name: "too large", target: "/v1/normalize", filename: "rota.csv", data: bytes.Repeat([]byte("a"), 2<<20), status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, upload(t, tt.target, tt.filename, tt.data))
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestNormalize_MissingFile(t *testing.T) {
	h := newTestServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/v1/normalize", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPing(t *testing.T) {
	h := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHTTPServer_RunStopsOnCancel(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0", Handler: HandlerConfig{Options: schedule.DefaultOptions()}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
