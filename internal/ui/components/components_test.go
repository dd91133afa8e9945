package components

import (
	"strings"
	"testing"
)

func TestRenderLineChartEmpty(t *testing.T) {
	got := RenderLineChart(nil, 40, 5, "totals")
	if !strings.Contains(got, "No data available") {
		t.Errorf("Expected placeholder for empty data, got %q", got)
	}
}

func TestRenderLineChart(t *testing.T) {
	got := RenderLineChart([]float64{1, 3, 2, 5}, 40, 5, "totals")
	if !strings.Contains(got, "totals") {
		t.Errorf("Chart caption missing:\n%s", got)
	}
	if len(strings.Split(got, "\n")) < 3 {
		t.Errorf("Chart too small:\n%s", got)
	}
}

func TestRenderDualLineChartPadsSeries(t *testing.T) {
	got := RenderDualLineChart([]float64{1, 2, 3}, []float64{4}, 40, 5, "kits")
	if !strings.Contains(got, "kits") {
		t.Errorf("Chart caption missing:\n%s", got)
	}
}

func TestRenderBarChart(t *testing.T) {
	got := RenderBarChart([]float64{3, 1}, []string{"military", "culture"}, 60)

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "military") || !strings.Contains(lines[0], "█") {
		t.Errorf("Unexpected bar line: %q", lines[0])
	}
	if !strings.Contains(got, "3") {
		t.Error("Bar value missing")
	}
}

func TestRenderBarChartEmpty(t *testing.T) {
	if got := RenderBarChart(nil, nil, 40); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{0, 1, 2, 3}, 4)
	if got == "" {
		t.Fatal("Expected sparkline output")
	}
	if !strings.ContainsRune(got, '█') {
		t.Errorf("Max value should render a full block: %q", got)
	}
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("loading snapshot")
	if !strings.Contains(s.ViewWithLabel(), "loading snapshot") {
		t.Error("Spinner label missing from view")
	}

	s.SetLabel("parsing")
	if !strings.Contains(s.ViewWithLabel(), "parsing") {
		t.Error("SetLabel did not update the label")
	}
}
