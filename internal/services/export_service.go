package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

const exportTagSeparator = "; "

var ExportCSVHeaders = []string{
	"Date",
	"Pain Level",
	"Pain Location",
	"Pain Type",
	"Bleeding",
	"Mood",
	"Energy Level",
	"Notes",
}

type ExportEntryReader interface {
	List(ctx context.Context, userID uint) ([]models.SymptomEntry, error)
}

type ExportService struct {
	entries ExportEntryReader
}

func NewExportService(entries ExportEntryReader) *ExportService {
	return &ExportService{entries: entries}
}

type ExportRow struct {
	Date         string   `json:"date"`
	PainLevel    int      `json:"pain_level"`
	PainLocation []string `json:"pain_location"`
	PainType     []string `json:"pain_type"`
	Bleeding     string   `json:"bleeding"`
	Mood         string   `json:"mood"`
	EnergyLevel  int      `json:"energy_level"`
	Notes        string   `json:"notes"`
}

func (row ExportRow) Columns() []string {
	return []string{
		row.Date,
		strconv.Itoa(row.PainLevel),
		strings.Join(row.PainLocation, exportTagSeparator),
		strings.Join(row.PainType, exportTagSeparator),
		row.Bleeding,
		row.Mood,
		strconv.Itoa(row.EnergyLevel),
		row.Notes,
	}
}

// Rows keeps the order of the stored list, newest date first.
func (service *ExportService) Rows(ctx context.Context, userID uint) ([]ExportRow, error) {
	entries, err := service.entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildExportRows(entries), nil
}

func BuildExportRows(entries []models.SymptomEntry) []ExportRow {
	rows := make([]ExportRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, ExportRow{
			Date:         entry.Date.Format(DayLayout),
			PainLevel:    entry.PainLevel,
			PainLocation: nonNilTags(entry.PainLocation),
			PainType:     nonNilTags(entry.PainType),
			Bleeding:     entry.Bleeding,
			Mood:         entry.Mood,
			EnergyLevel:  entry.EnergyLevel,
			Notes:        entry.Notes,
		})
	}
	return rows
}

// EncodeCSV quotes every cell and doubles embedded quotes. Returns nil for no rows.
func EncodeCSV(rows []ExportRow) []byte {
	if len(rows) == 0 {
		return nil
	}

	var builder strings.Builder
	writeCSVLine(&builder, ExportCSVHeaders)
	for _, row := range rows {
		writeCSVLine(&builder, row.Columns())
	}
	return []byte(builder.String())
}

func writeCSVLine(builder *strings.Builder, cells []string) {
	for index, cell := range cells {
		if index > 0 {
			builder.WriteByte(',')
		}
		builder.WriteByte('"')
		builder.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		builder.WriteByte('"')
	}
	builder.WriteByte('\n')
}

func ExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("artemis-symptoms-%s.%s", now.Format(DayLayout), extension)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
