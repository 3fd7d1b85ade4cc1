// Package export renders analysis results as spreadsheet workbooks.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/demographics-cli/internal/analysis"
)

// Workbook builds an xlsx file with one summary sheet plus one sheet per
// successful table outcome.
func Workbook(res *analysis.Result) (*xlsx.File, error) {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return nil, eris.Wrap(err, "export: add summary sheet")
	}
	writeSummary(summary, res)

	for _, out := range res.Tables {
		if out.Status != analysis.StatusSuccess || out.Distribution == nil {
			continue
		}
		sheet, err := f.AddSheet(sheetName(out.TableID))
		if err != nil {
			return nil, eris.Wrapf(err, "export: add sheet for %s", out.TableID)
		}
		writeDistribution(sheet, out)
	}
	return f, nil
}

// WriteFile renders the result and saves it at path.
func WriteFile(res *analysis.Result, path string) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func writeSummary(sheet *xlsx.Sheet, res *analysis.Result) {
	addRow(sheet, "Geography", res.GeographyID)
	addRow(sheet, "Anchor variable", res.AnchorVariable)
	addRow(sheet, "Anchor value", res.AnchorValue)
	addRow(sheet, "Resolved to", res.ResolvedAnchor.Matched)
	addRow(sheet, "Match explanation", res.ResolvedAnchor.Explanation)
	addRow(sheet, "Tables attempted", fmt.Sprintf("%d", res.Summary.Attempted))
	addRow(sheet, "Tables succeeded", fmt.Sprintf("%d", res.Summary.Succeeded))
	sheet.AddRow()

	addRow(sheet, "Table", "Paired variable", "Status", "Detail")
	for _, out := range res.Tables {
		detail := out.Explanation
		if out.Error != "" {
			detail = out.Error
		}
		addRow(sheet, out.TableID, out.PairedVariable, string(out.Status), detail)
	}
}

func writeDistribution(sheet *xlsx.Sheet, out analysis.TableOutcome) {
	dist := out.Distribution
	addRow(sheet, "Condition", fmt.Sprintf("%s = %s", dist.ConditionVariable, dist.ConditionCategory))
	addRow(sheet, "Source", dist.Source)
	addRow(sheet, "Total", fmt.Sprintf("%d", dist.Total))
	sheet.AddRow()

	addRow(sheet, "Category", "Count", "Percentage")
	for _, item := range dist.Items {
		row := sheet.AddRow()
		row.AddCell().SetString(item.Category)
		row.AddCell().SetInt64(item.Count)
		row.AddCell().SetFloatWithFormat(item.Percentage, "0.0")
	}
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

// sheetName keeps table ids within the 31-character sheet name limit.
func sheetName(tableID string) string {
	if len(tableID) > 31 {
		return tableID[:31]
	}
	return tableID
}
