// Package report renders stored simulations as PDF explanations and XLSX
// batch overviews.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
)

const (
	runsSheet  = "runs"
	stepsSheet = "steps"
)

// BuildRunPDF renders one run with its inputs, figures and step log.
func BuildRunPDF(run *models.Run) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Vehicle simulation")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	line := func(format string, args ...any) {
		pdf.Cell(0, 6, tr(fmt.Sprintf(format, args...)))
		pdf.Ln(5)
	}
	in := run.Input
	line("Simulation: %s", run.ID)
	line("Created: %s", run.CreatedAt.Format(time.RFC3339))
	line("Result: %s", run.Result.ResultCode)
	if run.Result.RejectionReason != "" {
		line("Reason: %s", run.Result.RejectionReason)
	}
	pdf.Ln(3)
	line("Town: %s   Brand: %s   Fuel: %s", in.TownID, in.BrandID, in.FuelTypeID)
	if in.CarTypeID != "" {
		line("Car type: %s", in.CarTypeID)
	} else {
		line("Car type: %s", in.CarTypeOther)
	}
	line("First registration: %s   Mileage: %d km   Seats: %d", in.FirstRegisteredAt.Format("2006-01-02"), in.Mileage, in.Seats)

	fig := run.Result.Figures
	pdf.Ln(3)
	line("Estimated value: %.0f", fig.EstimatedValue)
	line("Road tax: %.0f   Insurance: %.0f", fig.TaxRate, fig.InsurancePrice)
	line("Cost per km: %.2f   Bonus points: %d", fig.KmCost, fig.BonusPoints)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Step", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(118, 6, "Message", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	for _, s := range run.Result.Steps {
		pdf.CellFormat(50, 6, string(s.Code), "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 6, string(s.Status), "1", 0, "C", false, 0, "")
		pdf.CellFormat(118, 6, tr(s.Message), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildRunsXLSX renders a batch of runs: one summary row per run and one row
// per step.
func BuildRunsXLSX(runs []*models.Run) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", runsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(stepsSheet); err != nil {
		return nil, err
	}

	runHeader := []any{"ID", "Town", "Brand", "Fuel", "Car type", "First registration", "Mileage",
		"Result", "Reason", "Estimated value", "Road tax", "Insurance", "Cost per km", "Bonus points"}
	if err := f.SetSheetRow(runsSheet, "A1", &runHeader); err != nil {
		return nil, err
	}
	stepHeader := []any{"Run ID", "#", "Step", "Status", "Message"}
	if err := f.SetSheetRow(stepsSheet, "A1", &stepHeader); err != nil {
		return nil, err
	}

	stepRow := 2
	for i, run := range runs {
		in := run.Input
		carType := in.CarTypeID
		if carType == "" {
			carType = in.CarTypeOther
		}
		fig := run.Result.Figures
		row := []any{
			run.ID.String(), in.TownID, in.BrandID, in.FuelTypeID, carType,
			in.FirstRegisteredAt.Format("2006-01-02"), in.Mileage,
			string(run.Result.ResultCode), run.Result.RejectionReason,
			fig.EstimatedValue, fig.TaxRate, fig.InsurancePrice, fig.KmCost, fig.BonusPoints,
		}
		if err := f.SetSheetRow(runsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
		for n, s := range run.Result.Steps {
			cells := []any{run.ID.String(), n + 1, string(s.Code), string(s.Status), s.Message}
			if err := f.SetSheetRow(stepsSheet, fmt.Sprintf("A%d", stepRow), &cells); err != nil {
				return nil, err
			}
			stepRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
