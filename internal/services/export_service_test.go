package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/artemis-health/artemis/internal/models"
)

func TestEncodeCSVKeepsOrderAndQuotesEveryCell(t *testing.T) {
	entries := []models.SymptomEntry{
		{
			Date:         mustParseDay(t, "2024-01-02"),
			PainLevel:    2,
			PainLocation: []string{"Back", "Pelvis"},
			PainType:     []string{"Cramping"},
			Bleeding:     "Light",
			Mood:         "Low",
			EnergyLevel:  2,
			Notes:        "rough day",
		},
		{
			Date:        mustParseDay(t, "2024-01-01"),
			PainLevel:   0,
			EnergyLevel: 3,
		},
	}

	csv := string(EncodeCSV(BuildExportRows(entries)))
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 lines, got %d: %q", len(lines), csv)
	}

	wantHeader := `"Date","Pain Level","Pain Location","Pain Type","Bleeding","Mood","Energy Level","Notes"`
	if lines[0] != wantHeader {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `"2024-01-02","2","Back; Pelvis","Cramping","Light","Low","2","rough day"` {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[2] != `"2024-01-01","0","","","","","3",""` {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestEncodeCSVDoublesEmbeddedQuotes(t *testing.T) {
	rows := BuildExportRows([]models.SymptomEntry{{
		Date:        mustParseDay(t, "2024-01-02"),
		PainLevel:   1,
		EnergyLevel: 3,
		Notes:       `felt "off"`,
	}})

	csv := string(EncodeCSV(rows))
	if !strings.Contains(csv, `"felt ""off"""`) {
		t.Fatalf("expected embedded quotes to be doubled, got %q", csv)
	}
}

func TestEncodeCSVEmptyIsNoop(t *testing.T) {
	if got := EncodeCSV(nil); got != nil {
		t.Fatalf("expected nil output for no rows, got %q", got)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 5, 6, 23, 0, 0, 0, time.UTC)
	if got := ExportFilename(now, "csv"); got != "artemis-symptoms-2024-05-06.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestExportServiceRowsPropagatesReadFailure(t *testing.T) {
	service := NewExportService(NewEntryService(&stubEntryRepository{listErr: errors.New("boom")}, nil))
	if _, err := service.Rows(context.Background(), 1); !errors.Is(err, ErrReadFailure) {
		t.Fatalf("expected ErrReadFailure, got %v", err)
	}
}

func TestBuildExportRowsUsesEmptyTagSlices(t *testing.T) {
	rows := BuildExportRows([]models.SymptomEntry{{Date: mustParseDay(t, "2024-01-02")}})
	if rows[0].PainLocation == nil || rows[0].PainType == nil {
		t.Fatal("expected empty tag slices for JSON export")
	}
}
