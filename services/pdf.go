package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"wayplan/trip"
)

// GenerateItineraryPDF renders the projected trip as a printable day-by-day
// itinerary and returns the raw bytes (no filesystem involved).
func GenerateItineraryPDF(t *trip.Trip, blocks []trip.CityBlock) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "Wayplan", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	title := t.Name
	if title == "" {
		title = "Trip Itinerary"
	}
	pdf.CellFormat(170, 6, title, "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(text string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+text, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Overview ─────────────────────────────────────────────
	sectionHeader("Trip Overview")
	// Core fonts are cp1252; stick to ASCII separators so nothing renders
	// as mojibake.
	route := ""
	for i, b := range blocks {
		if i > 0 {
			route += " -> "
		}
		route += b.Name
	}
	row("Route", route)
	row("Days", fmt.Sprintf("%d", t.TotalDays()))
	if t.StartDate != nil {
		row("Starts", t.StartDate.Format("02 Jan 2006 (Mon)"))
	} else {
		row("Starts", "dates not set")
	}
	row("Generated", time.Now().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Day-by-day ───────────────────────────────────────────
	for _, block := range blocks {
		sectionHeader(fmt.Sprintf("%s - %d night(s)", block.Name, block.Nights))

		for _, day := range block.Days {
			label := fmt.Sprintf("Day %d", day.DayIndex+1)
			if day.Date != nil {
				label += day.Date.Format(" - Mon 02 Jan")
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(13, 24, 37)
			pdf.CellFormat(170, 7, label, "", 1, "L", false, 0, "")
			pdf.SetTextColor(40, 40, 40)
			pdf.SetFont("Helvetica", "", 10)

			if day.HotelName != "" {
				pdf.CellFormat(170, 6, "    Staying at "+day.HotelName, "", 1, "L", false, 0, "")
			}
			if len(day.Items) == 0 {
				pdf.SetTextColor(130, 130, 130)
				pdf.CellFormat(170, 6, "    Free day", "", 1, "L", false, 0, "")
				pdf.SetTextColor(40, 40, 40)
			}
			for _, it := range day.Items {
				line := "    - " + it.Name
				if it.DurationMinutes > 0 {
					line += fmt.Sprintf(" (%s)", formatDurationMin(it.DurationMinutes))
				}
				pdf.CellFormat(170, 6, line, "", 1, "L", false, 0, "")
			}
			pdf.Ln(1)
		}

		if block.TransitTo != nil {
			tr := block.TransitTo
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(130, 90, 20)
			pdf.CellFormat(170, 6,
				fmt.Sprintf("  Onward to %s by %s, about %s (%.0f km)",
					tr.ToName, tr.Mode, formatDurationMin(tr.DurationMinutes), tr.DistanceKm),
				"", 1, "L", false, 0, "")
			pdf.SetTextColor(40, 40, 40)
		}
		pdf.Ln(3)
	}

	// ── Footer ───────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by Wayplan | Not a booking confirmation | Times and transit are estimates",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}
