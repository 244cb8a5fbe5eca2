package exportsvc

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
)

const (
	sheet       = "Sheet1"
	contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []interface{}{"Group", "Student", "Gender", "Needs help"}

// XLSXExporter writes one row per group member: group name, student, gender, needs help.
type XLSXExporter struct{}

var _ grouping.Exporter = (*XLSXExporter)(nil)

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (XLSXExporter) ContentType() string { return contentType }

func (XLSXExporter) Filename(classID string) string {
	return fmt.Sprintf("groups-%s.xlsx", strings.ReplaceAll(classID, " ", "_"))
}

func (XLSXExporter) Export(w io.Writer, classID string, groups []grouping.Group, unplaced []roster.Student) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing workbook")
		}
	}()

	if err := f.SetCellValue(sheet, "A1", "Class "+classID); err != nil {
		return errors.Wrap(err, "writing title")
	}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	row := 4
	writeRow := func(group string, s roster.Student) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{group, s.Name, s.Gender, yesNo(s.NeedsHelp)}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Wrapf(err, "writing row %d", row)
		}
		row++
		return nil
	}

	for _, g := range groups {
		for _, m := range g.Members {
			if err := writeRow(g.Name, m); err != nil {
				return err
			}
		}
	}
	for _, s := range unplaced {
		if err := writeRow("Unplaced", s); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return errors.Wrap(err, "sizing columns")
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
