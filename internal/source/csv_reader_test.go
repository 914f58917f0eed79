package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"bridge-platform/internal/models"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

func newTestReader() *Reader {
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	return NewReader(logger, metrics.NewCollector("test", prometheus.NewRegistry()))
}

func TestReader_TypesCells(t *testing.T) {
	input := "\ufeff8 - Structure Number,Year,58 - Deck Condition Rating,Average Temperature,Note,Flag\n" +
		"00001,2020,N,-3.5,,true\n" +
		"ABC 12,2019,7,1e2,\"Main St, over creek\",FALSE\n"

	records, err := newTestReader().Read(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	tests := []struct {
		row    int
		column string
		want   interface{}
	}{
		{0, models.ColStructureNumber, float64(1)},
		{0, models.ColYear, float64(2020)},
		{0, models.ColRatingDeck, "N"},
		{0, models.ColTemperatureAvg, -3.5},
		{0, "Note", nil},
		{0, "Flag", true},
		{1, models.ColStructureNumber, "ABC 12"},
		{1, models.ColRatingDeck, float64(7)},
		{1, models.ColTemperatureAvg, float64(100)},
		{1, "Note", "Main St, over creek"},
		{1, "Flag", false},
	}

	for _, tt := range tests {
		got := records[tt.row].Value(tt.column)
		if got != tt.want {
			t.Errorf("row %d %q = %#v, want %#v", tt.row, tt.column, got, tt.want)
		}
	}
}

func TestReader_ParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantColumn string
	}{
		{
			name:  "empty input",
			input: "",
		},
		{
			name:       "missing structure number",
			input:      "Year,1 - State Code\n2020,48\n",
			wantColumn: models.ColStructureNumber,
		},
		{
			name:       "duplicate column",
			input:      "8 - Structure Number,Year,Year\n1,2020,2021\n",
			wantColumn: models.ColYear,
		},
		{
			name:  "ragged row",
			input: "8 - Structure Number,Year\n1,2020,extra\n",
		},
		{
			name:  "bare quote",
			input: "8 - Structure Number,Year\n1\"2,2020\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestReader().Read(context.Background(), strings.NewReader(tt.input))

			var parseErr *models.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Read() error = %v, want *models.ParseError", err)
			}
			if parseErr.Column != tt.wantColumn {
				t.Errorf("Column = %q, want %q", parseErr.Column, tt.wantColumn)
			}
			if parseErr.IsTransient() {
				t.Error("IsTransient() = true, want false")
			}
		})
	}
}

func TestReader_ReadFileMissing(t *testing.T) {
	if _, err := newTestReader().ReadFile(context.Background(), "testdata/does-not-exist.csv"); err == nil {
		t.Error("ReadFile() on a missing file should fail")
	}
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestReader().Read(ctx, strings.NewReader("8 - Structure Number,Year\n1,2020\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}
