package label

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// 100 mm x 150 mm in points.
const (
	pageWidth  = 283.0
	pageHeight = 425.0
)

type Data struct {
	Code         string
	Recipient    string
	Address      string
	StoreName    string
	StoreAddress string
	IssuedAt     time.Time
}

type Renderer struct {
	tracker Tracker
}

func NewRenderer(tracker Tracker) *Renderer {
	return &Renderer{tracker: tracker}
}

// Render draws a single-page label and returns the PDF bytes.
func (r *Renderer) Render(d Data) ([]byte, error) {
	qr, err := QRCodePNG(r.tracker.Payload(d.Code), 256)

	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("ChamaLog "+d.Code, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// frame
	pdf.SetDrawColor(255, 98, 0)
	pdf.Rect(10, 10, 263, 405, "D")

	pdf.SetTextColor(255, 98, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 32, "ChamaLog")
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 47, tr("Entrega Rápida"))

	dashedLine(pdf, 60)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(15, 100, tr("Destinatário:"))
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(15, 115, tr(d.Recipient))
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(15, 120)
	pdf.MultiCell(150, 12, tr(d.Address), "", "L", false)

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 180, 90, 80, 80, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(15, 180, "Pedido:")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(15, 195, d.Code)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(15, 210, tr("Data de Emissão: "+d.IssuedAt.Format("02/01/2006")))

	dashedLine(pdf, 260)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(15, 290, "Remetente:")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(15, 305, tr(d.StoreName))
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(15, 310)
	pdf.MultiCell(150, 12, tr(d.StoreAddress), "", "L", false)

	dashedLine(pdf, 390)

	pdf.SetTextColor(255, 98, 0)
	pdf.SetXY(15, 398)
	pdf.CellFormat(253, 12, "www.chamalog.com", "", 0, "C", false, 0, "")

	var buf bytes.Buffer

	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func dashedLine(pdf *gofpdf.Fpdf, y float64) {
	pdf.SetDrawColor(204, 204, 204)
	pdf.SetDashPattern([]float64{5, 5}, 0)
	pdf.Line(15, y, 268, y)
	pdf.SetDashPattern([]float64{}, 0)
}
