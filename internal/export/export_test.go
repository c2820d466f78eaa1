package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
)

func sampleSubmission() model.Submission {
	return model.Submission{
		ID:          "sub-1",
		ProjectID:   "VH-2025-001",
		Market:      "Los Angeles",
		Address:     "123 Main St",
		SubmittedBy: "jane@vestahome.com",
		SubmittedAt: time.Date(2025, 6, 2, 15, 4, 0, 0, time.UTC),
		Answers: map[string]any{
			"project_id":                 "VH-2025-001",
			"is_project_complete":        true,
			"crew_performed_as_expected": false,
			"design_inspiration":         "Coastal light",
			"favourite_room":             "",
		},
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{true, "Yes"},
		{false, "No"},
		{nil, Blank},
		{"", Blank},
		{"Other: patio", "Other: patio"},
		{3.5, "3.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestFormatDate(t *testing.T) {
	at := time.Date(2025, 6, 2, 22, 4, 0, 0, time.UTC)
	assert.Equal(t, "Mon, Jun 2, 2025, 10:04 PM", FormatDate(at, nil))
	assert.Equal(t, "Mon, Jun 2, 2025, 3:04 PM", FormatDate(at, time.FixedZone("PDT", -7*3600)))
}

func TestBuild(t *testing.T) {
	sub := sampleSubmission()
	d := Build(form.Default(), &sub, nil)

	assert.Equal(t, "VH-2025-001", d.ProjectID)
	assert.Equal(t, "Mon, Jun 2, 2025, 3:04 PM", d.Date)

	var ids []string
	for _, g := range d.Groups {
		ids = append(ids, g.ID)
		assert.NotEmpty(t, g.Items)
	}
	assert.Equal(t, []string{"project", "design", "procurement"}, ids)

	project := d.Groups[0]
	require.Len(t, project.Items, 1)
	assert.Equal(t, "is_project_complete", project.Items[0].Name)
	assert.Equal(t, "Yes", project.Items[0].Value)

	design := d.Groups[1]
	require.Len(t, design.Items, 1)
	assert.Equal(t, "Coastal light", design.Items[0].Value)

	assert.Equal(t, "No", d.Groups[2].Items[0].Value)
}

func TestHeader(t *testing.T) {
	schema := form.Default()
	h := Header(schema)
	assert.Equal(t, []string{"ID", "Project ID", "Market", "Address", "Submitted By", "Submitted At"}, h[:6])
	assert.Len(t, h, 6+len(schema.Fields()))
	assert.Equal(t, schema.Fields()[0].Label, h[6])
}

func TestRow(t *testing.T) {
	schema := form.Default()
	row := Row(schema, sampleSubmission(), nil)
	require.Len(t, row, len(Header(schema)))
	assert.Equal(t, "2025-06-02T15:04:00Z", row[5])

	byLabel := map[string]string{}
	for i, h := range Header(schema) {
		byLabel[h] = row[i]
	}
	complete := schema.Field("is_project_complete")
	require.NotNil(t, complete)
	assert.Equal(t, "Yes", byLabel[complete.Label])
	room := schema.Field("favourite_room")
	require.NotNil(t, room)
	assert.Equal(t, "", byLabel[room.Label])
}

func TestWriteXLSX(t *testing.T) {
	schema := form.Default()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, schema, []model.Submission{sampleSubmission()}, nil))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Project ID", sheet.Rows[0].Cells[1].String())
	assert.Equal(t, "VH-2025-001", sheet.Rows[1].Cells[1].String())
}

func TestWorkbookEmpty(t *testing.T) {
	f, err := Workbook(form.Default(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, f.Sheet[SheetName].Rows, 1)
}
