package infra

// pdf.go — archival PDF copy of the Z-ticket using go-pdf/fpdf.
// The plain-text ticket remains the authoritative audit artifact; the PDF is
// a thermal-format convenience copy for the back office.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// GenerateZTicketPDF writes the rendered Z-ticket text, line for line, onto a
// thermal-receipt-sized PDF. storagePath is created if needed. Returns the
// absolute path of the generated file.
func GenerateZTicketPDF(sessionID, ticketText, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("z_ticket_%s.pdf", sessionID)
	filePath := filepath.Join(storagePath, fileName)

	lines := strings.Split(ticketText, "\n")

	// 74mm wide — close to thermal receipt paper. Height grows with the
	// ticket so long income lists never overflow onto a second page.
	height := float64(len(lines))*4 + 16
	if height < 105 {
		height = 105
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// First line is the brand header, second the ticket kind.
	pdf.SetFont("Courier", "B", 11)
	for i, line := range lines {
		if i == 2 {
			pdf.SetFont("Courier", "", 7)
		}
		pdf.CellFormat(contentW, 4, line, "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
