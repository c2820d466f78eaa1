package directory

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/vestahome/designer-hub/internal/model"
)

type column int

const (
	colID column = iota
	colMarket
	colAddress
	colSalesPerson
	colDesigner
)

// headerAliases maps normalized header text to a project column.
var headerAliases = map[string]column{
	"id":              colID,
	"project_id":      colID,
	"project":         colID,
	"project_number":  colID,
	"market":          colMarket,
	"region":          colMarket,
	"address":         colAddress,
	"site_address":    colAddress,
	"project_address": colAddress,
	"sales_person":    colSalesPerson,
	"sales_personnel": colSalesPerson,
	"salesperson":     colSalesPerson,
	"sales":           colSalesPerson,
	"designer":        colDesigner,
	"lead_designer":   colDesigner,
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	}), "_")
}

// ParseProjects maps a header row plus data rows to projects. Rows without a
// project id are skipped. A repeated id keeps its last row.
func ParseProjects(rows [][]string) ([]model.Project, error) {
	if len(rows) == 0 {
		return nil, eris.New("directory: no header row")
	}

	index := map[column]int{}
	for i, h := range rows[0] {
		if col, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	if _, ok := index[colID]; !ok {
		return nil, eris.Errorf("directory: no project id column in header %q", rows[0])
	}

	cell := func(row []string, col column) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []model.Project
	pos := map[string]int{}
	for _, row := range rows[1:] {
		p := model.Project{
			ID:          cell(row, colID),
			Market:      cell(row, colMarket),
			Address:     cell(row, colAddress),
			SalesPerson: cell(row, colSalesPerson),
			Designer:    cell(row, colDesigner),
		}
		if p.ID == "" {
			continue
		}
		if i, seen := pos[p.ID]; seen {
			out[i] = p
			continue
		}
		pos[p.ID] = len(out)
		out = append(out, p)
	}
	return out, nil
}
