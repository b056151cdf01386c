package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/execpartners/bpsim/internal/plan"
)

// Builder renders business-plan PDFs for one configured brand.
type Builder struct {
	company string
	pr      *message.Printer
	now     func() time.Time // injectable for deterministic output in tests
}

// NewBuilder creates a Builder branded with the given company name.
func NewBuilder(company string) *Builder {
	return &Builder{
		company: company,
		pr:      message.NewPrinter(language.English),
		now:     time.Now,
	}
}

// Build renders the full report and returns the PDF bytes.
func (b *Builder) Build(c plan.Candidate, prospects plan.ProspectList, proj plan.Projection) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 22, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Watermark on every page, drawn before the page content.
	pdf.SetHeaderFuncMode(func() { b.watermark(pdf, tr) }, true)
	pdf.SetFooterFunc(func() { b.footer(pdf, tr) })

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 10, "Business Plan Projection", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(b.company), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	b.kvTable(pdf, tr, "Section 1 - Candidate Summary", [][2]string{
		{"Candidate Name", c.Name},
		{"Email", c.Email},
		{"Current Role", c.Role},
		{"Location", c.Location},
	})
	pdf.Ln(3)
	b.kvTable(pdf, tr, "Compensation & Market", [][2]string{
		{"Employer", c.Employer},
		{"Market", c.Market},
		{fmt.Sprintf("Base Salary (%s)", c.Currency), b.money(c.BaseSalary)},
		{fmt.Sprintf("Last Bonus (%s)", c.Currency), b.money(c.LastBonus)},
	})
	pdf.Ln(5)

	b.kvTable(pdf, tr, "Section 2 - NNM Projection", [][2]string{
		{"NNM Year 1 (M CHF)", b.float1(c.NNM[0])},
		{"NNM Year 2 (M CHF)", b.float1(c.NNM[1])},
		{"NNM Year 3 (M CHF)", b.float1(c.NNM[2])},
		{"Current AUM (M CHF)", b.float1(c.AUMMillions)},
		{"Current # Clients", fmt.Sprintf("%d", c.NumClients)},
	})
	pdf.Ln(5)

	b.prospectsSection(pdf, tr, prospects)
	pdf.Ln(5)
	b.revenueSection(pdf, tr, proj)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// --- sections ---------------------------------------------------------------

func (b *Builder) prospectsSection(pdf *fpdf.Fpdf, tr func(string) string, prospects plan.ProspectList) {
	b.sectionTitle(pdf, "Section 3 - Prospects (NNA)")

	if len(prospects) == 0 {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 6, "No prospects captured.", "", 1, "L", false, 0, "")
		return
	}

	widths := []float64{50, 26, 30, 30, 30}
	b.tableHeader(pdf, widths, []string{"Name", "Source", "Wealth (M)", "Best NNM (M)", "Worst NNM (M)"})

	rows := append(append(plan.ProspectList{}, prospects...), prospects.Totals())
	for i, p := range rows {
		fill := i%2 == 1
		if p.Name == "TOTAL" {
			pdf.SetFont("Helvetica", "B", 9)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.SetTextColor(15, 23, 42)
		pdf.SetFillColor(251, 252, 255)
		pdf.CellFormat(widths[0], 6, tr(p.Name), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, string(p.Source), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 6, b.float1(p.WealthM), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 6, b.float1(p.BestNNM), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 6, b.float1(p.WorstNNM), "1", 1, "R", fill, 0, "")
	}
}

func (b *Builder) revenueSection(pdf *fpdf.Fpdf, tr func(string) string, proj plan.Projection) {
	b.sectionTitle(pdf, "Section 4 - Revenue, Costs & Net Margin")

	widths := []float64{30, 45, 45, 45}
	b.tableHeader(pdf, widths, []string{"Year", "Gross Revenue (CHF)", "Fixed Cost (CHF)", "Net Margin (CHF)"})

	pdf.SetTextColor(15, 23, 42)
	for i, row := range proj.Rows() {
		fill := i%2 == 1
		if row.Year == "Total" {
			pdf.SetFont("Helvetica", "B", 9)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.SetFillColor(251, 252, 255)
		pdf.CellFormat(widths[0], 6, row.Year, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, b.money(row.GrossRevenue), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[2], 6, b.money(row.FixedCost), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 6, b.money(row.NetMargin), "1", 1, "R", fill, 0, "")
	}
}

// --- decoration -------------------------------------------------------------

func (b *Builder) watermark(pdf *fpdf.Fpdf, tr func(string) string) {
	w, h := pdf.GetPageSize()
	pdf.TransformBegin()
	pdf.TransformRotate(45, w/2, h/2)
	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(226, 232, 245)
	text := tr(b.company)
	pdf.Text(w/2-pdf.GetStringWidth(text)/2, h/2, text)
	pdf.TransformEnd()
}

func (b *Builder) footer(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetY(-15)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(102, 102, 102)
	footer := fmt.Sprintf("%s | Confidential | Generated %s",
		b.company, b.now().Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, tr(footer), "", 0, "R", false, 0, "")
}

// --- table helpers ----------------------------------------------------------

func (b *Builder) sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (b *Builder) tableHeader(pdf *fpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(209, 213, 219)
	for i, label := range labels {
		ln := 0
		if i == len(labels)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, label, "1", ln, "L", true, 0, "")
	}
}

// kvTable renders a titled two-column label/value block.
func (b *Builder) kvTable(pdf *fpdf.Fpdf, tr func(string) string, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(245, 247, 250)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetDrawColor(209, 213, 219)
	pdf.CellFormat(140, 7, title, "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		pdf.CellFormat(70, 6, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, tr(row[1]), "1", 1, "L", false, 0, "")
	}
}

// --- formatting -------------------------------------------------------------

func (b *Builder) money(v float64) string {
	return b.pr.Sprintf("%.0f", v)
}

func (b *Builder) float1(v float64) string {
	return b.pr.Sprintf("%.1f", v)
}
