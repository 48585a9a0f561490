package itinerary

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

// pdfEpoch pins the document creation and modification dates so identical
// itineraries produce identical files.
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// RenderPDF writes the itinerary as an A4 document. Core fonts are cp1252, so
// text goes through the UTF-8 translator and emoji markers are left out.
func RenderPDF(it *Itinerary, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetModificationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(it.Name), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, tr(it.Name), "", "L", false)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, tr("Hotel: "+it.Hotel), "", "L", false)
	pdf.Ln(4)

	for _, day := range it.DayPlans {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, tr(day.Date), "B", 1, "L", false, 0, "")
		pdf.Ln(2)

		if len(day.Flight) > 0 {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 7, "Flight options", "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			for _, f := range day.Flight {
				line := fmt.Sprintf("- %s %s | %s -> %s | %s", f.Airline, f.FlightNumber, f.Departure, f.Arrival, f.Price)
				pdf.MultiCell(0, 6, tr(line), "", "L", false)
			}
			pdf.Ln(2)
		}

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, "Activities", "", 1, "L", false, 0, "")
		for _, act := range day.Activities {
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("- %s (%s) rating %s", act.Name, act.Location, formatRating(act.Rating))), "", "L", false)
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr("  "+act.Description), "", "L", false)
		}
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, "Restaurants", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, r := range day.Restaurants {
			pdf.MultiCell(0, 6, tr("- "+r), "", "L", false)
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}
