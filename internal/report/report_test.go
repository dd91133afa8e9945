package report

import (
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/veskel/cityscan/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{5, "5"},
		{30, "30"},
		{2.5, "2.50"},
		{1.0000000001, "1"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.value); got != tt.want {
			t.Errorf("FormatNumber(%g) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatProbability(t *testing.T) {
	if got := FormatProbability(nil); got != "" {
		t.Errorf("Expected empty string for nil, got %q", got)
	}
	if got := FormatProbability(floatPtr(0.2)); got != "20%" {
		t.Errorf("Expected 20%%, got %q", got)
	}
	if got := FormatProbability(floatPtr(0.125)); got != "12.5%" {
		t.Errorf("Expected 12.5%%, got %q", got)
	}
}

func TestFormatTimeLabel(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{28800, "8h"},
		{3600, "1h"},
		{90, "90s"},
		{0, ""},
	}
	for _, tt := range tests {
		if got := FormatTimeLabel(tt.seconds); got != tt.want {
			t.Errorf("FormatTimeLabel(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestRecordLine(t *testing.T) {
	record := models.ProductionRecord{
		Fragments:          30,
		SourceAmount:       1,
		SourceUnit:         "kits",
		TimeSeconds:        28800,
		Probability:        floatPtr(0.2),
		RequiresMotivation: true,
	}

	got := RecordLine(record)
	want := "30 fragments (1 kit) (8h) @ 20% chance (needs motivation)"
	if got != want {
		t.Errorf("RecordLine = %q, want %q", got, want)
	}
}

func TestRecordLinePlainFragments(t *testing.T) {
	record := models.ProductionRecord{
		Fragments:    5,
		SourceAmount: 5,
		SourceUnit:   "fragments",
		TimeSeconds:  14400,
	}

	got := RecordLine(record)
	if got != "5 fragments (4h)" {
		t.Errorf("RecordLine = %q", got)
	}
}

func sampleBuildings() []models.KitBuilding {
	return []models.KitBuilding{
		{
			ID: "B_Shrine", Name: "Shrine",
			SizeX: 2, SizeY: 2, HasSize: true,
			Street:     intPtr(1),
			Expected:   5,
			Efficiency: 1.25,
			Records: []models.ProductionRecord{
				{Fragments: 5, SourceAmount: 5, SourceUnit: "fragments", TimeSeconds: 28800},
			},
		},
		{
			ID: "B_NoSize", Name: "Abstract",
			Expected: 2,
			Records: []models.ProductionRecord{
				{Fragments: 2, SourceAmount: 2, SourceUnit: "fragments"},
			},
		},
	}
}

func TestRenderKitReport(t *testing.T) {
	got := RenderKitReport("city_test.json", "VirtualFuture", models.OneUpKit, sampleBuildings())

	for _, want := range []string{
		"Source file: city_test.json",
		"Era: VirtualFuture",
		"Kit type: One Up Kit",
		"Total buildings: 2",
		"1. Shrine | size 2x2 | street 1 | efficiency 1.250 fragments/tile",
		"Expected fragments per cycle: 5",
		"- 5 fragments (8h)",
		"2. Abstract | size unknown | street n/a | efficiency n/a fragments/tile",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Report missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("Report must end with a newline")
	}
}

func TestRenderCensus(t *testing.T) {
	summary := &models.CensusSummary{
		SourceFile:   "city_test.json",
		Total:        7,
		Classified:   5,
		Unclassified: 1,
		Skipped:      1,
		Categories:   map[string]int{"residential": 2, "military": 3},
		Eras:         map[string]int{"VirtualFuture": 1, "IronAge": 4},
	}

	got := RenderCensus(summary)

	if !strings.Contains(got, "Entities: 7 total, 5 classified, 1 unclassified, 1 skipped") {
		t.Errorf("Missing totals line:\n%s", got)
	}
	// Categories sorted by name
	if strings.Index(got, "military") > strings.Index(got, "residential") {
		t.Error("Categories must be sorted by name")
	}
	// Eras sorted by rank
	if strings.Index(got, "IronAge") > strings.Index(got, "VirtualFuture") {
		t.Error("Eras must be sorted by progression rank")
	}
	if !strings.Contains(got, "IA") || !strings.Contains(got, "VF") {
		t.Errorf("Era codes missing:\n%s", got)
	}
}

func TestWriteKitReports(t *testing.T) {
	dir := t.TempDir()
	reports := models.KitReports{models.OneUpKit: sampleBuildings()}

	paths, err := WriteKitReports(dir, "city_test.json", "VirtualFuture", reports)
	if err != nil {
		t.Fatalf("WriteKitReports failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 report files, got %d", len(paths))
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "Kit type: One Up Kit") {
		t.Error("One Up Kit report has wrong content")
	}

	data, err = os.ReadFile(paths[1])
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "Total buildings: 0") {
		t.Error("Renovation Kit report should be empty")
	}
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	reports := models.KitReports{models.OneUpKit: sampleBuildings()}

	path, err := WriteWorkbook(dir, "VirtualFuture", reports)
	if err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "One Up Kit" || sheets[1] != "Renovation Kit" {
		t.Fatalf("Unexpected sheets: %v", sheets)
	}

	name, err := f.GetCellValue("One Up Kit", "B2")
	if err != nil {
		t.Fatalf("Failed to read cell: %v", err)
	}
	if name != "Shrine" {
		t.Errorf("Expected Shrine in B2, got %q", name)
	}

	street, err := f.GetCellValue("One Up Kit", "D3")
	if err != nil {
		t.Fatalf("Failed to read cell: %v", err)
	}
	if street != "n/a" {
		t.Errorf("Expected n/a street for sizeless building, got %q", street)
	}
}
