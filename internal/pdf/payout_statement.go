package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	PayoutStatement(data PayoutData) ([]byte, error)
}

type PayoutData struct {
	PayoutID    int
	Seller      string
	Amount      string
	Destination string
	PaidAt      time.Time
}

// StatementGenerator — реализация на gofpdf
type StatementGenerator struct {
	FontPath string // путь до TTF с кириллицей, например "assets/fonts/DejaVuSans.ttf"
	fontName string
}

func NewStatementGenerator(fontPath string) *StatementGenerator {
	return &StatementGenerator{
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

func (g *StatementGenerator) PayoutStatement(data PayoutData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Выплата №%d", data.PayoutID), false)
	pdf.SetAuthor("Onerinn", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "ВЫПИСКА ПО ВЫПЛАТЕ", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("№ ON-%06d  от  %s", data.PayoutID, data.PaidAt.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Получатель")
	g.kvLine(pdf, "Продавец", data.Seller)
	g.kvLine(pdf, "Реквизиты", data.Destination)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Сумма")
	g.kvLine(pdf, "К выплате", data.Amount)
	g.kvLine(pdf, "Дата исполнения", data.PaidAt.Format("02.01.2006 15:04"))
	pdf.Ln(2)
	g.hr(pdf)

	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, 5,
		"Документ сформирован автоматически платформой Onerinn и действителен без подписи.",
		"", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *StatementGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		// без TTF кириллица в core-шрифтах не выйдет, но генерация не падает
		g.fontName = "Helvetica"
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func (g *StatementGenerator) hr(pdf *gofpdf.Fpdf) {
	x, y := pdf.GetXY()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(left, y, pageW-right, y)
	pdf.SetXY(x, y+2)
}

func (g *StatementGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (g *StatementGenerator) kvLine(pdf *gofpdf.Fpdf, k, v string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(50, 6, k+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, v, "", 1, "L", false, 0, "")
}
