package export

import (
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/model"
)

// SheetName is the workbook's only sheet.
const SheetName = "Submissions"

var metaColumns = []string{"id", "project_id", "market", "address", "submitted_by", "submitted_at"}

// columnTitle turns a snake_case key into a header such as "Submitted By".
func columnTitle(key string) string {
	words := strings.Fields(cases.Title(language.English).String(strings.ReplaceAll(key, "_", " ")))
	for i, w := range words {
		if w == "Id" {
			words[i] = "ID"
		}
	}
	return strings.Join(words, " ")
}

// Header returns the workbook header: submission columns followed by every
// question label in schema order.
func Header(schema *form.Schema) []string {
	h := make([]string, 0, len(metaColumns)+len(schema.Fields()))
	for _, c := range metaColumns {
		h = append(h, columnTitle(c))
	}
	for _, f := range schema.Fields() {
		h = append(h, f.Label)
	}
	return h
}

// Row returns one submission in Header order.
func Row(schema *form.Schema, sub model.Submission, loc *time.Location) []string {
	at := sub.SubmittedAt
	if loc != nil {
		at = at.In(loc)
	}
	row := []string{
		sub.ID,
		sub.ProjectID,
		sub.Market,
		sub.Address,
		sub.SubmittedBy,
		at.Format(time.RFC3339),
	}
	for _, f := range schema.Fields() {
		v := sub.Answers[f.Name]
		if form.IsEmpty(v) {
			row = append(row, "")
			continue
		}
		row = append(row, FormatValue(v))
	}
	return row
}

// Workbook builds an xlsx file with one row per submission.
func Workbook(schema *form.Schema, subs []model.Submission, loc *time.Location) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	addRow(sheet, Header(schema))
	for _, sub := range subs {
		addRow(sheet, Row(schema, sub, loc))
	}
	return f, nil
}

// WriteXLSX writes the workbook for subs to w.
func WriteXLSX(w io.Writer, schema *form.Schema, subs []model.Submission, loc *time.Location) error {
	f, err := Workbook(schema, subs, loc)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}
