package registry

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadPriorsFromXLSX reads priors from a spreadsheet. Expected columns:
// category, hours, high_priority; the first row is a header.
func LoadPriorsFromXLSX(path, sheetName string) (*Registry, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: open priors sheet")
	}

	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, eris.Errorf("registry: sheet %q not found", sheetName)
	}

	var priors []Prior
	for i, row := range sheet.Rows {
		if i == 0 || len(row.Cells) < 2 {
			continue
		}
		category := strings.TrimSpace(row.Cells[0].String())
		if category == "" {
			continue
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(row.Cells[1].String()), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: bad hours value in row %d", i+1)
		}
		prior := Prior{Category: category, Hours: hours}
		if len(row.Cells) > 2 {
			prior.HighPriority = parseBoolCell(row.Cells[2].String())
		}
		priors = append(priors, prior)
	}
	return New(priors), nil
}

func parseBoolCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "high":
		return true
	default:
		return false
	}
}
