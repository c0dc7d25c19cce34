// Package invoice рисует одностраничный PDF-счёт по брони.
package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cartlock/internal/models"
)

// Реквизиты поставщика фиксированы.
const (
	supplierName  = "Cart Rental Service"
	supplierLine1 = "Hauptstrasse 1"
	supplierLine2 = "12345 Musterstadt"
)

type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render — чистая функция от записи: реквизиты, клиент, код брони,
// одна строка позиции и итог. Пустые поля рисуются пустыми, нулевая
// цена — нулём; для корректной записи отказов быть не должно.
func (p *Renderer) Render(r *models.Reservation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, supplierName)
	pdf.Ln(5)
	pdf.Cell(0, 5, supplierLine1)
	pdf.Ln(5)
	pdf.Cell(0, 5, supplierLine2)
	pdf.Ln(12)

	pdf.Cell(0, 5, "Billed to: "+r.Name)
	pdf.Ln(5)
	pdf.Cell(0, 5, r.Email)
	pdf.Ln(5)
	pdf.Cell(0, 5, r.Phone)
	pdf.Ln(12)

	pdf.Cell(0, 5, "Reservation: "+r.Code)
	pdf.Ln(5)
	pdf.Cell(0, 5, "Issued: "+time.Now().Format("2006-01-02"))
	pdf.Ln(12)

	// единственная позиция
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(130, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	item := fmt.Sprintf("Cart rental, %s - %s", r.StartDate, r.EndDate)
	pdf.CellFormat(130, 8, item, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f EUR", r.Price), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 8, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f EUR", r.Price), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice render: %w", err)
	}
	return buf.Bytes(), nil
}
