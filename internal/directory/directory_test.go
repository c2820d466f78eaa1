package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/vestahome/designer-hub/internal/model"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "projects.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

var directoryRows = [][]string{
	{"Project ID", "Market", "Address", "Sales Person", "Lead Designer", "Notes"},
	{"VH-2025-001", "Los Angeles", "123 Main St", "Jane", "Sam", "corner lot"},
	{"", "Florida", "nowhere", "", "", ""},
	{"VH-2025-002", "Florida", "1 Ocean Dr", "Ann", "Lee", ""},
	{"VH-2025-001", "Los Angeles", "125 Main St", "Jane", "Sam", "corrected"},
}

func TestParseProjects(t *testing.T) {
	got, err := ParseProjects(directoryRows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Project{ID: "VH-2025-001", Market: "Los Angeles", Address: "125 Main St", SalesPerson: "Jane", Designer: "Sam"}, got[0])
	assert.Equal(t, "VH-2025-002", got[1].ID)
	assert.Equal(t, "Lee", got[1].Designer)
}

func TestParseProjectsShortRowsAndAliases(t *testing.T) {
	got, err := ParseProjects([][]string{
		{"\ufeffproject_number", "region", "sales-personnel"},
		{"P1", "New York City"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New York City", got[0].Market)
	assert.Empty(t, got[0].SalesPerson)
}

func TestParseProjectsErrors(t *testing.T) {
	_, err := ParseProjects(nil)
	require.Error(t, err)

	_, err = ParseProjects([][]string{{"Market", "Address"}, {"Florida", "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no project id column")
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "project_id", normalizeHeader("  Project ID "))
	assert.Equal(t, "sales_person", normalizeHeader("Sales-Person"))
	assert.Equal(t, "id", normalizeHeader("\ufeffID"))
}

func TestReadFileXLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{"Projects": directoryRows})

	rows, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Len(t, rows, len(directoryRows))

	rows, err = ReadFile(path, Options{Sheet: "Projects"})
	require.NoError(t, err)
	assert.Equal(t, directoryRows[1], rows[1])

	_, err = ReadFile(path, Options{Sheet: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Missing" not found`)
}

func TestReadFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,market\nVH-1,Florida\nVH-2\n"), 0o600))

	rows, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"VH-2"}, rows[2])
}

func TestReadFileCSVCharset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.csv")
	// "Café" in windows-1252.
	require.NoError(t, os.WriteFile(path, []byte("id,address\nVH-1,Caf\xe9\n"), 0o600))

	rows, err := ReadFile(path, Options{Charset: "windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, "Café", rows[1][1])

	_, err = ReadFile(path, Options{Charset: "klingon"})
	require.Error(t, err)
}

func TestReadFileTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.tsv")
	require.NoError(t, os.WriteFile(path, []byte("id\tmarket\nVH-1\tFlorida\n"), 0o600))

	rows, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"VH-1", "Florida"}, rows[1])
}

func TestReadFileUnsupported(t *testing.T) {
	_, err := ReadFile("projects.pdf", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exports/projects.csv", r.URL.Path)
		_, _ = w.Write([]byte("Project ID,Market,Designer\nVH-9,Florida,Sam\n"))
	}))
	defer srv.Close()

	got, err := Load(context.Background(), srv.URL+"/exports/projects.csv", Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sam", got[0].Designer)
}

func TestLoadFromURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/projects.csv", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestLoadLocal(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{"Sheet1": directoryRows})
	got, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
