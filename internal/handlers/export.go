package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"subsidyopt/internal/report"
	sentryutil "subsidyopt/internal/sentry"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ExportPDF analyzes the posted profile and returns the report as a PDF attachment.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	r, span := startSpan(r, "export_pdf")
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

	start := time.Now()
	result := h.analyze(r.Context(), h.Store.Current(), profile, opts)

	var buf bytes.Buffer
	_, render := tracer().Start(r.Context(), "report.render")
	err = report.Render(&buf, profile, result, report.Options{FontPath: h.ReportFont, GeneratedAt: start})
	render.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		sentryutil.CaptureError(err, map[string]string{"handler": "export-pdf", "phase": "render"})
		writeError(w, http.StatusInternalServerError, "PDF 생성에 실패했습니다")
		return
	}
	h.Metrics.IncrementReports()
	span.SetAttributes(attribute.Int("report.bytes", buf.Len()))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="subsidy-report-%s.pdf"`, start.Format("20060102")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
