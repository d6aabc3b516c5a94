package report

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Equil/internal/calc/weakacid"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	weakacid.Input
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := weakacid.Calculate(input.Input)
	if err != nil {
		weakacid.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"weak-acid-report.pdf\"")
	if err := Render(w, input, res, time.Now()); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

// Render writes a one-page PDF with the inputs and equilibrium concentrations.
func Render(w io.Writer, input Input, res weakacid.Result, date time.Time) error {
	if input.Title == "" {
		input.Title = "Weak Acid Equilibrium Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(input.Title, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "HA <=> H+ + A-")
	pdf.Ln(9)

	rows := [][2]string{
		{"c0 (mol/L)", fmt.Sprintf("%.6e", input.C0)},
		{"Ka", fmt.Sprintf("%.6e", input.Ka)},
		{"[HA] (mol/L)", fmt.Sprintf("%.6e", res.HA)},
		{"[A-] (mol/L)", fmt.Sprintf("%.6e", res.AMinus)},
		{"[H+] (mol/L)", fmt.Sprintf("%.6e", res.HPlus)},
		{"pH", fmt.Sprintf("%.3f", res.PH)},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(50, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
	pdf.MultiCell(0, 6, res.Notes, "", "L", false)
	if input.Notes != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}

	return pdf.Output(w)
}
