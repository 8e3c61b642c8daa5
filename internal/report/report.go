// Package report renders an analysis result as a PDF.
//
// Hangul needs a UTF-8 TrueType font. Without one the report falls back to
// the PDF core fonts and prints ASCII text only: subsidy ids stand in for
// names and amounts are shown in KRW.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"subsidyopt/internal/krw"
	"subsidyopt/internal/logger"
	"subsidyopt/internal/models"
	"subsidyopt/internal/region"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
)

// Options controls rendering. The zero value renders an ASCII report stamped with the current time.
type Options struct {
	FontPath    string
	GeneratedAt time.Time
}

var (
	cBlue    = [3]int{27, 58, 84}
	cBlueLt  = [3]int{45, 95, 138}
	cGreen   = [3]int{42, 107, 69}
	cGreenBg = [3]int{233, 245, 237}
	cRed     = [3]int{200, 50, 50}
	cCream   = [3]int{248, 247, 243}
	cInk75   = [3]int{64, 64, 64}
	cInk50   = [3]int{107, 107, 107}
	cInk15   = [3]int{217, 217, 217}
	cWhite   = [3]int{255, 255, 255}
)

const (
	pageW    = 210.0
	pageH    = 297.0
	marginL  = 18.0
	marginR  = 18.0
	marginT  = 18.0
	contentW = pageW - marginL - marginR
)

const fontFamily = "hangul"

type labels struct {
	title, subtitle, generated, catalog                       string
	profile, company, businessNo, region, industry, employees string
	eligibleCount, optimalTotal, optimal, noOptimal           string
	comparison, rank, subsidy, amount, monthly, share         string
	notEligible, documents, method, deadline, disclaimer      string
	reasonsOmitted                                            string
}

var korean = labels{
	title: "고용지원금 분석 보고서", subtitle: "지원금 자격 및 최적 조합", generated: "작성일", catalog: "데이터 버전",
	profile: "기업 정보", company: "기업명", businessNo: "사업자등록번호", region: "지역", industry: "업종", employees: "근로자 수",
	eligibleCount: "수급 가능 지원금", optimalTotal: "최적 조합 총액", optimal: "최적 지원금 조합", noOptimal: "수급 가능한 지원금이 없습니다",
	comparison: "지원금별 비교", rank: "순위", subsidy: "지원금", amount: "총액", monthly: "월평균", share: "최고 대비",
	notEligible: "수급 불가 지원금", documents: "신청 서류 안내", method: "신청 방법", deadline: "신청 기한",
	disclaimer: "본 보고서는 입력 정보에 기반한 추정치이며 실제 지급액은 심사 결과에 따라 달라질 수 있습니다.",
}

var english = labels{
	title: "Employment Subsidy Report", subtitle: "Eligibility and optimal combination", generated: "Generated", catalog: "Catalog version",
	profile: "Company", company: "Name", businessNo: "Business no.", region: "Region tier", industry: "Industry", employees: "Employees",
	eligibleCount: "Eligible subsidies", optimalTotal: "Optimal total", optimal: "Optimal combination", noOptimal: "No eligible subsidies",
	comparison: "Comparison", rank: "Rank", subsidy: "Subsidy", amount: "Total", monthly: "Monthly avg", share: "Of best",
	notEligible: "Not eligible", documents: "Application documents", method: "Method", deadline: "Deadline",
	disclaimer: "Estimates based on the submitted profile. Actual payouts depend on the agency review.",
	reasonsOmitted: "unmet requirement(s)",
}

type doc struct {
	pdf     *gofpdf.Fpdf
	unicode bool
	l       labels
}

// Render writes the PDF report of res for p to w.
func Render(w io.Writer, p models.Profile, res models.AnalysisResult, opts Options) error {
	at := opts.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginL, marginT, marginR)
	pdf.SetAutoPageBreak(false, 20)
	pdf.SetTitle("Employment Subsidy Report", true)
	pdf.SetCreator("subsidyopt", true)

	d := &doc{pdf: pdf, l: english}
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			logger.Warn("report: font not readable, using ASCII fallback", map[string]interface{}{
				"path": opts.FontPath, "error": err.Error(),
			})
		} else {
			pdf.AddUTF8Font(fontFamily, "", opts.FontPath)
			pdf.AddUTF8Font(fontFamily, "B", opts.FontPath)
			if err := pdf.Error(); err != nil {
				return fmt.Errorf("load report font: %w", err)
			}
			d.unicode = true
			d.l = korean
		}
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		d.font("", 7)
		setText(pdf, cInk50)
		pdf.CellFormat(contentW/2, 6, d.text(res.CatalogVersion), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 6, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	d.header(at, res.CatalogVersion)
	d.profile(p)
	d.summary(res)
	d.optimal(res)
	d.comparison(res.Comparison)
	d.rejections(res.NotEligible)
	d.documents(res)
	d.disclaimer()

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func setFill(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }
func setText(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
func setDraw(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetDrawColor(c[0], c[1], c[2]) }

func (d *doc) font(style string, size float64) {
	if d.unicode {
		d.pdf.SetFont(fontFamily, style, size)
		return
	}
	d.pdf.SetFont("Helvetica", style, size)
}

// text returns s as the active font can draw it.
func (d *doc) text(s string) string {
	if d.unicode {
		return s
	}
	return ascii(s)
}

// name is the display name of a subsidy; ASCII mode falls back to the id.
func (d *doc) name(id, name string) string {
	if d.unicode && name != "" {
		return name
	}
	if n := ascii(name); n != "" {
		return n
	}
	return id
}

func (d *doc) money(n int64) string {
	if d.unicode {
		return krw.Won(n)
	}
	return "KRW " + krw.Group(n)
}

func ascii(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsPrint(r) || r == ' ') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ensureSpace adds a page when fewer than needed mm remain.
func (d *doc) ensureSpace(needed float64) {
	if d.pdf.GetY()+needed > pageH-22 {
		d.pdf.AddPage()
	}
}

func (d *doc) section(title string) {
	d.ensureSpace(16)
	d.pdf.Ln(4)
	d.font("B", 11)
	setText(d.pdf, cBlue)
	d.pdf.CellFormat(contentW, 7, title, "", 1, "L", false, 0, "")
	setDraw(d.pdf, cInk15)
	d.pdf.SetLineWidth(0.3)
	y := d.pdf.GetY()
	d.pdf.Line(marginL, y, pageW-marginR, y)
	d.pdf.Ln(2)
}

func (d *doc) header(at time.Time, version string) {
	pdf := d.pdf
	setFill(pdf, cBlue)
	pdf.Rect(0, 0, pageW, 42, "F")
	setFill(pdf, cBlueLt)
	pdf.Rect(0, 39, pageW, 3, "F")

	pdf.SetXY(marginL, 12)
	d.font("B", 20)
	setText(pdf, cWhite)
	pdf.CellFormat(contentW, 9, d.l.title, "", 1, "L", false, 0, "")
	pdf.SetX(marginL)
	d.font("", 10)
	pdf.CellFormat(contentW, 6, d.l.subtitle, "", 1, "L", false, 0, "")
	pdf.SetX(marginL)
	d.font("", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s %s   %s %s", d.l.generated, at.Format("2006-01-02"), d.l.catalog, d.text(version)), "", 1, "L", false, 0, "")
	pdf.SetY(48)
}

func (d *doc) row(label, value string) {
	d.font("", 9)
	setText(d.pdf, cInk50)
	d.pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	setText(d.pdf, cInk75)
	d.pdf.CellFormat(contentW-40, 6, value, "", 1, "L", false, 0, "")
}

func (d *doc) profile(p models.Profile) {
	d.section(d.l.profile)
	if p.CompanyName != "" {
		d.row(d.l.company, d.text(p.CompanyName))
	}
	if p.BusinessNumber != "" {
		d.row(d.l.businessNo, p.BusinessNumber)
	}
	tier := region.Classify(p)
	regionText := string(tier)
	if d.unicode {
		regionText = strings.TrimSpace(p.Region + " " + tier.Label())
	}
	d.row(d.l.region, regionText)
	if p.Industry != "" {
		d.row(d.l.industry, d.text(p.Industry))
	}
	d.row(d.l.employees, fmt.Sprintf("%d", p.TotalEmployees))
}

func (d *doc) summary(res models.AnalysisResult) {
	pdf := d.pdf
	d.ensureSpace(30)
	pdf.Ln(4)
	y := pdf.GetY()
	half := contentW/2 - 3

	var total int64
	if res.Optimal != nil {
		total = res.Optimal.TotalAmount
	}
	cards := []struct {
		x            float64
		value, label string
		color        [3]int
	}{
		{marginL, fmt.Sprintf("%d", len(res.Eligible)), d.l.eligibleCount, cBlue},
		{marginL + half + 6, d.money(total), d.l.optimalTotal, cGreen},
	}
	for _, c := range cards {
		setFill(pdf, cCream)
		pdf.RoundedRect(c.x, y, half, 22, 3, "1234", "F")
		pdf.SetXY(c.x+5, y+4)
		d.font("B", 16)
		setText(pdf, c.color)
		pdf.CellFormat(half-10, 8, c.value, "", 0, "L", false, 0, "")
		pdf.SetXY(c.x+5, y+14)
		d.font("", 8)
		setText(pdf, cInk50)
		pdf.CellFormat(half-10, 5, c.label, "", 0, "L", false, 0, "")
	}
	pdf.SetY(y + 26)
}

func (d *doc) optimal(res models.AnalysisResult) {
	d.section(d.l.optimal)
	if res.Optimal == nil {
		d.font("", 9)
		setText(d.pdf, cRed)
		d.pdf.CellFormat(contentW, 6, d.l.noOptimal, "", 1, "L", false, 0, "")
		return
	}
	for _, s := range res.Optimal.Subsidies {
		d.ensureSpace(14)
		setFill(d.pdf, cGreenBg)
		d.font("B", 9)
		setText(d.pdf, cInk75)
		d.pdf.CellFormat(contentW-50, 7, d.name(s.SubsidyID, s.SubsidyName), "", 0, "L", true, 0, "")
		setText(d.pdf, cGreen)
		d.pdf.CellFormat(50, 7, d.money(s.TotalAmount), "", 1, "R", true, 0, "")
		if s.Details != "" && d.unicode {
			d.font("", 7.5)
			setText(d.pdf, cInk50)
			d.pdf.MultiCell(contentW, 4.5, s.Details, "", "L", false)
		}
		d.pdf.Ln(1)
	}
}

func (d *doc) comparison(ranked []models.RankedCalculation) {
	if len(ranked) == 0 {
		return
	}
	d.section(d.l.comparison)
	widths := []float64{14, contentW - 14 - 36 - 30 - 22, 36, 30, 22}
	d.font("B", 8)
	setText(d.pdf, cInk50)
	for i, h := range []string{d.l.rank, d.l.subsidy, d.l.amount, d.l.monthly, d.l.share} {
		d.pdf.CellFormat(widths[i], 6, h, "B", 0, "L", false, 0, "")
	}
	d.pdf.Ln(-1)
	d.font("", 8)
	setText(d.pdf, cInk75)
	for _, r := range ranked {
		d.ensureSpace(7)
		d.pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", r.Rank), "", 0, "L", false, 0, "")
		d.pdf.CellFormat(widths[1], 6, d.name(r.SubsidyID, r.SubsidyName), "", 0, "L", false, 0, "")
		d.pdf.CellFormat(widths[2], 6, d.money(r.TotalAmount), "", 0, "R", false, 0, "")
		d.pdf.CellFormat(widths[3], 6, d.money(r.MonthlyAverage), "", 0, "R", false, 0, "")
		d.pdf.CellFormat(widths[4], 6, krw.Percent(r.PercentageOfBest), "", 1, "R", false, 0, "")
	}
}

func (d *doc) rejections(rejected []models.Rejection) {
	if len(rejected) == 0 {
		return
	}
	d.section(d.l.notEligible)
	for _, r := range rejected {
		d.ensureSpace(12)
		d.font("B", 8.5)
		setText(d.pdf, cInk75)
		d.pdf.CellFormat(contentW, 5.5, d.name(r.Subsidy.ID, r.Subsidy.Name), "", 1, "L", false, 0, "")
		d.font("", 7.5)
		setText(d.pdf, cInk50)
		if !d.unicode {
			d.pdf.CellFormat(contentW, 4.5, fmt.Sprintf("  %d %s", len(r.Reasons), d.l.reasonsOmitted), "", 1, "L", false, 0, "")
			continue
		}
		for _, reason := range r.Reasons {
			d.pdf.CellFormat(contentW, 4.5, "  - "+reason, "", 1, "L", false, 0, "")
		}
	}
}

// documents lists the application guide of every subsidy in the optimal combination.
func (d *doc) documents(res models.AnalysisResult) {
	if res.Optimal == nil || !d.unicode {
		return
	}
	defs := make(map[string]models.SubsidyDefinition, len(res.Eligible))
	for _, e := range res.Eligible {
		defs[e.ID] = e
	}
	d.section(d.l.documents)
	for _, s := range res.Optimal.Subsidies {
		def, ok := defs[s.SubsidyID]
		if !ok {
			continue
		}
		g := def.DocumentGuide
		d.ensureSpace(10 + 4.5*float64(len(g.Required)))
		d.font("B", 8.5)
		setText(d.pdf, cInk75)
		d.pdf.CellFormat(contentW, 5.5, def.Name, "", 1, "L", false, 0, "")
		d.font("", 7.5)
		setText(d.pdf, cInk50)
		for _, req := range g.Required {
			d.pdf.CellFormat(contentW, 4.5, "  - "+req, "", 1, "L", false, 0, "")
		}
		if g.ApplicationMethod != "" {
			d.pdf.CellFormat(contentW, 4.5, "  "+d.l.method+": "+g.ApplicationMethod, "", 1, "L", false, 0, "")
		}
		if g.Deadline != "" {
			d.pdf.CellFormat(contentW, 4.5, "  "+d.l.deadline+": "+g.Deadline, "", 1, "L", false, 0, "")
		}
		d.pdf.Ln(1.5)
	}
}

func (d *doc) disclaimer() {
	d.ensureSpace(14)
	d.pdf.Ln(4)
	d.font("", 7)
	setText(d.pdf, cInk50)
	d.pdf.MultiCell(contentW, 4, d.l.disclaimer, "", "L", false)
}
