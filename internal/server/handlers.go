package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gssantosss/horariosautomaticosloga/internal/history"
	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
	"github.com/gssantosss/horariosautomaticosloga/internal/sheet"
)

// Query arguments accepted by POST /v1/normalize.
const (
	FormatQueryArg    = "format"
	SheetQueryArg     = "sheet"
	GapQueryArg       = "gap"
	InclusiveQueryArg = "inclusive"
	EveningQueryArg   = "evening"
	MorningQueryArg   = "morning"
	CrossingQueryArg  = "crossing"

	FileFormField = "file"
)

// Response formats.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Recorder stores a run summary. history.Repository satisfies it.
type Recorder interface {
	CreateRun(ctx context.Context, r *history.Run) error
}

// HandlerConfig wires a NormalizeHandler.
type HandlerConfig struct {
	Options        schedule.Options
	CountMode      schedule.CountMode
	MaxUploadBytes int64
	Cache          *ResultCache // nil disables caching
	Recorder       Recorder     // nil disables run history
	Logger         *slog.Logger
}

// NormalizeHandler serves route normalization over HTTP.
type NormalizeHandler struct {
	opts      schedule.Options
	countMode schedule.CountMode
	maxUpload int64
	cache     *ResultCache
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewNormalizeHandler creates a handler from cfg.
func NewNormalizeHandler(cfg HandlerConfig) *NormalizeHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if cfg.CountMode == "" {
		cfg.CountMode = schedule.CountOrders
	}
	return &NormalizeHandler{
		opts:      cfg.Options,
		countMode: cfg.CountMode,
		maxUpload: cfg.MaxUploadBytes,
		cache:     cfg.Cache,
		recorder:  cfg.Recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// Ping answers liveness checks.
func (h *NormalizeHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Normalize reads an uploaded route table and answers with the normalized
// agenda as JSON or as an xlsx workbook.
func (h *NormalizeHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := strings.ToLower(q.Get(FormatQueryArg))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatXLSX {
		writeError(w, http.StatusBadRequest, "invalid argument "+FormatQueryArg)
		return
	}

	opts, err := h.parseOptions(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	data, filename, err := readUpload(r, h.maxUpload)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	digest := history.Digest(data)
	sheetName := q.Get(SheetQueryArg)
	key := cacheKey(digest, filename, format, sheetName, opts)
	if h.cache != nil {
		if res, ok := h.cache.Get(key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeResult(w, res)
			return
		}
	}

	tbl, err := sheet.Read(bytes.NewReader(data), filename, sheet.LoadOptions{Sheet: sheetName})
	if err != nil {
		h.logger.Info("rejecting upload", "file", filename, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	opts.Logger = h.logger
	week := schedule.NormalizeWeek(tbl, opts)
	sector := schedule.SummarizeSector(tbl, week.Agenda, filename, h.countMode)

	res, err := render(format, filename, week, &sector)
	if err != nil {
		h.logger.Error("rendering response", "file", filename, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.cache != nil {
		h.cache.Set(key, res)
	}
	h.record(r.Context(), filename, digest, week, sector, opts)

	h.logger.Info("normalized upload",
		"file", filename,
		"format", format,
		"rows", tbl.Len(),
		"agenda", week.Agenda.Len(),
		"gaps", week.TotalGaps())

	w.Header().Set("X-Cache", "MISS")
	writeResult(w, res)
}

func (h *NormalizeHandler) record(ctx context.Context, filename, digest string, week *schedule.Week, sector schedule.SectorSummary, opts schedule.Options) {
	if h.recorder == nil {
		return
	}
	run, err := history.FromWeek(filename, digest, week, sector, opts, h.now())
	if err == nil {
		err = h.recorder.CreateRun(ctx, run)
	}
	if err != nil {
		h.logger.Warn("recording run", "file", filename, "error", err)
	}
}

// parseOptions overlays query overrides on the handler's base options.
func (h *NormalizeHandler) parseOptions(q url.Values) (schedule.Options, error) {
	opts := h.opts

	if v := q.Get(GapQueryArg); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid argument %s", GapQueryArg)
		}
		opts.GapThreshold = n
	}
	if v := q.Get(InclusiveQueryArg); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid argument %s", InclusiveQueryArg)
		}
		opts.GapInclusive = b
	}
	for name, dst := range map[string]*int{EveningQueryArg: &opts.EveningHour, MorningQueryArg: &opts.MorningHour} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 23 {
			return opts, fmt.Errorf("invalid argument %s", name)
		}
		*dst = n
	}
	if opts.MorningHour >= opts.EveningHour {
		return opts, fmt.Errorf("%s must be before %s", MorningQueryArg, EveningQueryArg)
	}
	if v := q.Get(CrossingQueryArg); v != "" {
		p, err := schedule.ParseCrossingPolicy(v)
		if err != nil {
			return opts, fmt.Errorf("invalid argument %s", CrossingQueryArg)
		}
		opts.Policy = p
	}
	return opts, nil
}

func readUpload(r *http.Request, maxMemory int64) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, "", fmt.Errorf("parsing upload: %w", err)
	}
	file, header, err := r.FormFile(FileFormField)
	if err != nil {
		return nil, "", fmt.Errorf("missing %q form file", FileFormField)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	return data, filepath.Base(header.Filename), nil
}

func render(format, filename string, week *schedule.Week, sector *schedule.SectorSummary) (CachedResult, error) {
	var buf bytes.Buffer
	switch format {
	case FormatXLSX:
		if err := sheet.WriteAgenda(&buf, week, sector); err != nil {
			return CachedResult{}, err
		}
		base := strings.TrimSuffix(filename, filepath.Ext(filename))
		return CachedResult{ContentType: xlsxContentType, Filename: base + "_agenda.xlsx", Body: buf.Bytes()}, nil
	default:
		if err := json.NewEncoder(&buf).Encode(sheet.NewReport(filename, week, sector)); err != nil {
			return CachedResult{}, err
		}
		return CachedResult{ContentType: "application/json", Body: buf.Bytes()}, nil
	}
}

func writeResult(w http.ResponseWriter, res CachedResult) {
	w.Header().Set("Content-Type", res.ContentType)
	if res.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
