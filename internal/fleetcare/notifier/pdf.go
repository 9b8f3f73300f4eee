package notifier

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// RenderPDF lays out the printable document of a notification: the duplicate
// slip of a bill or the approval letter of a quote.
func RenderPDF(n *model.Notification) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 16)

	switch p := n.Payload.(type) {
	case *model.DuplicateArtifact:
		pdf.Cell(0, 10, tr("FGL Rastreamento - Segunda Via"))
		pdf.Ln(14)
		line("Boleto:", p.ID)
		line("Mês/Ano:", formatPeriod(p.Month))
		line("Valor:", "R$ "+formatBRL(p.Value))
		line("Vencimento:", p.DueDate.Format("02/01/2006"))
		line("Gerado em:", p.GeneratedAt.UTC().Format(time.RFC3339))
		pdf.Ln(6)
		pdf.SetFont("Courier", "B", 14)
		pdf.CellFormat(0, 12, p.Code, "1", 1, "C", false, 0, "")
	case *model.Quote:
		pdf.Cell(0, 10, tr("Cotação Aprovada"))
		pdf.Ln(14)
		line("Veículo:", p.Model)
		line("Placa:", p.Plate)
		line("Plano:", "Proteção 20mil")
		line("Valor Mensal:", "R$ 89,90")
		line("Solicitada em:", p.CreatedAt.UTC().Format(time.RFC3339))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr("Seu veículo foi aprovado para nosso plano de proteção com cobertura de até R$ 20.000,00."), "", "L", false)
	default:
		return nil, fmt.Errorf("no document layout for %s payload %T", n.Kind, n.Payload)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
