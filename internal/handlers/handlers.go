package handlers

import (
	"context"
	"errors"
	"net/http"
	"subsidyopt/internal/calc"
	"subsidyopt/internal/catalog"
	"subsidyopt/internal/engine"
	"subsidyopt/internal/metrics"
	"subsidyopt/internal/models"
	sentryutil "subsidyopt/internal/sentry"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 1 << 20

const tracerName = "subsidyopt/handlers"

// tracer resolves through the global provider on each call so a provider
// installed after package init is still used.
func tracer() trace.Tracer { return otel.Tracer(tracerName) }

// startSpan joins the caller's trace from the request headers and returns the
// request carrying the new span.
func startSpan(r *http.Request, name string) (*http.Request, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := tracer().Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", r.URL.Path)),
	)
	return r.WithContext(ctx), span
}

// analyze runs the engine in a child span of ctx.
func (h *Handler) analyze(ctx context.Context, cat *catalog.Catalog, p models.Profile, opts engine.Options) models.AnalysisResult {
	_, span := tracer().Start(ctx, "engine.analyze")
	defer span.End()

	start := time.Now()
	result := engine.Analyze(cat, p, opts)
	h.observe(start, result)

	attrs := []attribute.KeyValue{
		attribute.String("catalog.version", cat.Version()),
		attribute.Int("analysis.eligible", len(result.Eligible)),
		attribute.Int("analysis.not_eligible", len(result.NotEligible)),
	}
	if result.Optimal != nil {
		attrs = append(attrs,
			attribute.String("optimizer.strategy", result.Optimal.Strategy),
			attribute.Int64("optimizer.total_amount", result.Optimal.TotalAmount),
		)
	}
	span.SetAttributes(attrs...)
	return result
}

// Handler serves the HTTP API over the active catalog of a store.
type Handler struct {
	Store   *catalog.Store
	Metrics *metrics.Metrics
	Engine  engine.Options

	AdminKey   string
	BackupDir  string
	ReportFont string

	started time.Time
}

// New returns a Handler. m may be nil.
func New(store *catalog.Store, m *metrics.Metrics, opts engine.Options) *Handler {
	return &Handler{Store: store, Metrics: m, Engine: opts, started: time.Now()}
}

type analyzeResponse struct {
	AnalysisID string `json:"analysis_id"`
	models.AnalysisResult
}

// Analyze runs the full pipeline on the posted profile. The optional
// gender_policy query parameter overrides the configured policy.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "analyze")
	defer span.End()

	profile, ok := decodeProfile(w, r)
	if !ok {
		return
	}
	opts, err := h.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.analyze(r.Context(), h.Store.Current(), profile, opts)

	id := uuid.NewString()
	span.SetAttributes(attribute.String("analysis.id", id))

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, analyzeResponse{AnalysisID: id, AnalysisResult: result})
}

func (h *Handler) observe(start time.Time, res models.AnalysisResult) {
	var optimal int64
	if res.Optimal != nil {
		optimal = res.Optimal.TotalAmount
	}
	h.Metrics.ObserveAnalysis(start, len(res.Eligible), optimal, res.Optimal != nil)
	for _, c := range res.Calculations {
		if c.Fault != "" {
			h.Metrics.IncrementFault(c.SubsidyID)
		}
	}
}

func (h *Handler) options(r *http.Request) (engine.Options, error) {
	opts := h.Engine
	if q := r.URL.Query().Get("gender_policy"); q != "" {
		g, err := calc.ParseGenderPolicy(q)
		if err != nil {
			return opts, errors.New("gender_policy는 average, male, female 중 하나여야 합니다")
		}
		opts.GenderPolicy = g
	}
	return opts, nil
}

type subsidyList struct {
	Version   string                     `json:"version"`
	Count     int                        `json:"count"`
	Subsidies []models.SubsidyDefinition `json:"subsidies"`
}

// Subsidies lists the catalog, optionally filtered by category or target_type.
func (h *Handler) Subsidies(w http.ResponseWriter, r *http.Request) {
	cat := h.Store.Current()
	list := cat.Subsidies()
	if c := r.URL.Query().Get("category"); c != "" {
		list = cat.ByCategory(c)
	}
	if t := r.URL.Query().Get("target_type"); t != "" {
		list = filterTarget(list, models.TargetType(t))
	}
	writeJSON(w, http.StatusOK, subsidyList{Version: cat.Version(), Count: len(list), Subsidies: list})
}

func filterTarget(list []models.SubsidyDefinition, t models.TargetType) []models.SubsidyDefinition {
	out := []models.SubsidyDefinition{}
	for _, s := range list {
		if s.TargetType == t {
			out = append(out, s)
		}
	}
	return out
}

func (h *Handler) Subsidy(w http.ResponseWriter, r *http.Request) {
	def, err := h.Store.Current().ByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "지원금을 찾을 수 없습니다")
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Current().Info())
}

// Options returns the lists a client needs to build a profile form.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, h.Store.Current().FormOptions())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	cat := h.Store.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"catalog_version": cat.Version(),
		"subsidies":       cat.Len(),
		"catalog_faults":  len(cat.Audit()),
		"uptime_seconds":  int64(time.Since(h.started).Seconds()),
	})
}

func decodeProfile(w http.ResponseWriter, r *http.Request) (models.Profile, bool) {
	var p models.Profile
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": r.URL.Path, "phase": "decode"})
		writeError(w, http.StatusBadRequest, "잘못된 요청 본문입니다")
		return p, false
	}
	if msg, ok := validateProfile(p); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return p, false
	}
	if p.BusinessNumber != "" {
		p.BusinessNumber = formatBusinessNumber(p.BusinessNumber)
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
