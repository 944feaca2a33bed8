package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
)

// FileName is the download name served for every export.
const FileName = "report.xlsx"

const timeLayout = "2006-01-02 15:04:05"

// fixed columns preceding the per-project parameter columns
var fixedHeaders = []string{"Name", "IP", "End Time", "Duration"}

// excel sheet names cap out at 31 characters
const maxSheetName = 31

func sheetName(project string) string {
	if len(project) > maxSheetName {
		return project[:maxSheetName]
	}

	return project
}

// Workbook renders one sheet per project. Each sheet starts with the fixed
// columns, then the sorted union of parameter names seen across the
// project's results; parameter rows are pivoted into those columns. The
// duration cell carries an h:mm:ss display format.
func Workbook(grouped map[string][]models.TestResult) (*excelize.File, error) {
	f := excelize.NewFile()

	durationStyle, err := f.NewStyle(&excelize.Style{NumFmt: 21}) // h:mm:ss
	if err != nil {
		return nil, fmt.Errorf("failed to create duration style: %w", err)
	}

	projects := make([]string, 0, len(grouped))
	for project := range grouped {
		projects = append(projects, project)
	}
	sort.Strings(projects)

	for _, project := range projects {
		if err := addSheet(f, sheetName(project), grouped[project], durationStyle); err != nil {
			return nil, err
		}
	}

	// drop the implicit default sheet once real sheets exist
	if len(projects) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	return f, nil
}

func addSheet(
	f *excelize.File,
	sheet string,
	results []models.TestResult,
	durationStyle int,
) error {
	_, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	paramNames := parameterColumns(results)

	header := make([]any, 0, len(fixedHeaders)+len(paramNames))
	for _, h := range fixedHeaders {
		header = append(header, h)
	}
	for _, p := range paramNames {
		header = append(header, p)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header for sheet %q: %w", sheet, err)
	}

	for i, result := range results {
		params := result.ParameterMap()

		row := make([]any, 0, len(header))
		row = append(row,
			result.Name,
			result.IP,
			result.EndTime.Format(timeLayout),
			// excel stores times as a fraction of a day
			float64(result.Duration)/86400.0,
		)
		for _, p := range paramNames {
			row = append(row, params[p])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute row cell: %w", err)
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for sheet %q: %w", sheet, err)
		}

		durationCell, err := excelize.CoordinatesToCellName(len(fixedHeaders), i+2)
		if err != nil {
			return fmt.Errorf("failed to compute duration cell: %w", err)
		}

		err = f.SetCellStyle(sheet, durationCell, durationCell, durationStyle)
		if err != nil {
			return fmt.Errorf("failed to style duration cell: %w", err)
		}
	}

	return nil
}

// parameterColumns is the sorted union of parameter names across results.
// Ingestion enforces an exact match against the manifest, so normally every
// result carries the same set; the union keeps a partial row readable if the
// store was touched out of band.
func parameterColumns(results []models.TestResult) []string {
	seen := make(map[string]bool)
	for _, result := range results {
		for _, p := range result.Parameters {
			seen[p.Name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
