package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Computer Science Timetable",
		Headers: []string{"Day", "Slot", "Time", "Course", "Teacher", "Room", "Batch"},
		Rows: []map[string]string{
			{"Day": "Monday", "Slot": "1", "Time": "09:00-10:00", "Course": "CS301 Algorithms", "Teacher": "Dr. Rao", "Room": "A-101", "Batch": "CSE 2024 A"},
			{"Day": "Monday", "Slot": "2", "Time": "10:00-11:00", "Course": "CS302, Networks", "Teacher": "Dr. Iyer", "Room": "Lab 1", "Batch": "CSE 2024 A"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Slot,Time,Course,Teacher,Room,Batch", lines[0])
	assert.Contains(t, lines[2], `"CS302, Networks"`)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{Title: "empty"})
	assert.Error(t, err)
}
