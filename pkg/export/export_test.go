package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionDataset() Dataset {
	return Dataset{
		Columns: []Column{
			{Key: "test", Label: "Test", Width: 2},
			{Key: "accuracy", Label: "Accuracy (%)"},
			{Key: "notes"},
		},
		Rows: []map[string]string{
			{"test": "lightning-reaction", "accuracy": "92.50", "notes": "felt sharp, rested"},
			{"test": "laser-focus", "accuracy": "81.00"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sessionDataset())
	require.NoError(t, err)
	assert.Equal(t, "Test,Accuracy (%),notes\nlightning-reaction,92.50,\"felt sharp, rested\"\nlaser-focus,81.00,\n", string(out))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sessionDataset(), Document{Title: "Session History", Subtitle: "2 sessions"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, Document{})
	assert.Error(t, err)
}

func TestColumnWidthsAreProportional(t *testing.T) {
	widths := columnWidths(sessionDataset().Columns, 200)
	assert.InDeltaSlice(t, []float64{100, 50, 50}, widths, 1e-9)
}
