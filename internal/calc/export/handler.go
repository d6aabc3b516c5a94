package export

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"Equil/internal/calc/weakacid"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Equilibrium"

type Handler struct{}

func (h *Handler) Workbook(w http.ResponseWriter, r *http.Request) {
	var input weakacid.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := weakacid.Calculate(input)
	if err != nil {
		weakacid.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"weak-acid.xlsx\"")
	if err := Write(w, input, res); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
}

// Write stores the input and result as a two-column sheet: quantity, value.
func Write(w io.Writer, in weakacid.Input, res weakacid.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	rows := []struct {
		label string
		value float64
	}{
		{"c0 (mol/L)", in.C0},
		{"Ka", in.Ka},
		{"[HA] (mol/L)", res.HA},
		{"[A-] (mol/L)", res.AMinus},
		{"[H+] (mol/L)", res.HPlus},
		{"pH", res.PH},
	}
	if err := f.SetSheetRow(SheetName, "A1", &[]interface{}{"Quantity", "Value"}); err != nil {
		return err
	}
	for i, row := range rows {
		line := i + 2
		if err := f.SetCellStr(SheetName, fmt.Sprintf("A%d", line), row.label); err != nil {
			return err
		}
		if err := f.SetCellFloat(SheetName, fmt.Sprintf("B%d", line), row.value, -1, 64); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 16); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}
