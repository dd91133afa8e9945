// Package report renders census summaries and kit producer reports as text
// files and as an xlsx workbook.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/veskel/cityscan/internal/census"
	"github.com/veskel/cityscan/internal/era"
	"github.com/veskel/cityscan/internal/models"
)

// SafeEra makes an era name usable in file names.
func SafeEra(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// KitReportPath returns the text report path for one kit type.
func KitReportPath(outputDir, eraName string, kit models.KitType) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_buildings_%s.txt", kit, SafeEra(eraName)))
}

// WorkbookPath returns the xlsx workbook path for an era.
func WorkbookPath(outputDir, eraName string) string {
	return filepath.Join(outputDir, fmt.Sprintf("kit_buildings_%s.xlsx", SafeEra(eraName)))
}

// CensusReportPath returns the census summary path.
func CensusReportPath(outputDir string) string {
	return filepath.Join(outputDir, "census_summary.txt")
}

// WriteKitReports writes one text report per kit type and returns the paths
// in kit order.
func WriteKitReports(outputDir, sourceFile, eraName string, reports models.KitReports) ([]string, error) {
	paths := make([]string, 0, len(models.KitTypes()))
	for _, kit := range models.KitTypes() {
		path := KitReportPath(outputDir, eraName, kit)
		content := RenderKitReport(sourceFile, eraName, kit, reports[kit])
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write kit report: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderKitReport renders the ranked producer list for one kit type.
func RenderKitReport(sourceFile, eraName string, kit models.KitType, buildings []models.KitBuilding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source file: %s\n", sourceFile)
	fmt.Fprintf(&b, "Era: %s\n", eraName)
	fmt.Fprintf(&b, "Kit type: %s\n", kit.Label())
	fmt.Fprintf(&b, "Total buildings: %d\n\n", len(buildings))

	for i, building := range buildings {
		fmt.Fprintf(&b, "%d. %s | size %s | street %s | efficiency %s fragments/tile\n",
			i+1, building.Name, building.SizeLabel(),
			streetLabel(building.Street), efficiencyLabel(&building))
		fmt.Fprintf(&b, "   Expected fragments per cycle: %s\n", FormatNumber(building.Expected))
		for _, record := range building.Records {
			fmt.Fprintf(&b, "   - %s\n", RecordLine(record))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RecordLine renders one reward record as a detail line.
func RecordLine(record models.ProductionRecord) string {
	line := FormatNumber(record.Fragments) + " fragments" + sourceNote(record)
	if label := FormatTimeLabel(record.TimeSeconds); label != "" {
		line += " (" + label + ")"
	}
	if chance := FormatProbability(record.Probability); chance != "" {
		line += " @ " + chance + " chance"
	}
	if record.RequiresMotivation {
		line += " (needs motivation)"
	}
	return line
}

// sourceNote annotates records whose source amount is not already fragments.
func sourceNote(record models.ProductionRecord) string {
	switch record.SourceUnit {
	case "fragments":
		return ""
	case "kits":
		plural := "s"
		if nearlyEqual(record.SourceAmount, 1) {
			plural = ""
		}
		return fmt.Sprintf(" (%s kit%s)", FormatNumber(record.SourceAmount), plural)
	default:
		return fmt.Sprintf(" (%s %s)", FormatNumber(record.SourceAmount), record.SourceUnit)
	}
}

func streetLabel(street *int) string {
	if street == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *street)
}

func efficiencyLabel(building *models.KitBuilding) string {
	if building.Area() == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", building.Efficiency)
}

// WriteCensusReport writes the census summary and returns its path.
func WriteCensusReport(outputDir string, summary *models.CensusSummary) (string, error) {
	path := CensusReportPath(outputDir)
	if err := os.WriteFile(path, []byte(RenderCensus(summary)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write census report: %w", err)
	}
	return path, nil
}

// RenderCensus renders category counts sorted by name and the era breakdown
// sorted by progression rank.
func RenderCensus(summary *models.CensusSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source file: %s\n", summary.SourceFile)
	fmt.Fprintf(&b, "Entities: %d total, %d classified, %d unclassified, %d skipped\n\n",
		summary.Total, summary.Classified, summary.Unclassified, summary.Skipped)

	b.WriteString("Categories:\n")
	for _, c := range summary.SortedCategories() {
		fmt.Fprintf(&b, "  %-24s %d\n", c.Category, c.Count)
	}

	b.WriteString("\nEras:\n")
	for _, e := range census.EraBreakdown(summary) {
		fmt.Fprintf(&b, "  %-5s %-24s %d\n", era.Code(e.Era), e.Era, e.Count)
	}

	return b.String()
}

// FormatNumber renders whole values without a fraction and others with two
// decimals.
func FormatNumber(value float64) string {
	if nearlyEqual(value, math.Round(value)) {
		return fmt.Sprintf("%d", int(math.Round(value)))
	}
	return fmt.Sprintf("%.2f", value)
}

// FormatProbability renders a probability as a percentage, or "" for nil.
func FormatProbability(prob *float64) string {
	if prob == nil {
		return ""
	}
	pct := *prob * 100
	if nearlyEqual(pct, math.Round(pct)) {
		return fmt.Sprintf("%d%%", int(math.Round(pct)))
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatTimeLabel renders whole hours as "8h" and anything else in seconds.
// Zero means the production time is unknown.
func FormatTimeLabel(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	if seconds%3600 == 0 {
		return fmt.Sprintf("%dh", seconds/3600)
	}
	return fmt.Sprintf("%ds", seconds)
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
