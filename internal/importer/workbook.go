package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of an .xlsx workbook laid out like the
// tab-separated sheet export and groups its rows the same way.
func ParseWorkbook(r io.Reader) ([]Group, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading worksheet: %w", err)
	}
	return ParseRows(rows), nil
}
