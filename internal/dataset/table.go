package dataset

import (
	"slices"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"bikeshare/internal/config"
)

// Table is the filtered trip log for one selection. It is built once per
// session iteration and never modified afterwards.
type Table struct {
	frame     dataframe.DataFrame
	city      config.City
	selection config.Selection
}

// NewTable wraps an already derived and filtered frame.
func NewTable(frame dataframe.DataFrame, city config.City, sel config.Selection) *Table {
	return &Table{frame: frame, city: city, selection: sel}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.frame.Nrow()
}

// Frame returns the underlying data frame.
func (t *Table) Frame() dataframe.DataFrame {
	return t.frame
}

// City returns the catalog entry the table was loaded for.
func (t *Table) City() config.City {
	return t.city
}

// Selection returns the selection the table was filtered by.
func (t *Table) Selection() config.Selection {
	return t.selection
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.frame.Names(), name)
}

// Column returns the named column. Callers check HasColumn first.
func (t *Table) Column(name string) series.Series {
	return t.frame.Col(name)
}

// Page returns the header and the rows in [offset, offset+size), clamped to
// the table. A page starting past the end has no rows. Cells read as they
// do in the source file: whole numbers without decimals, missing cells blank.
func (t *Table) Page(offset, size int) ([]string, [][]string) {
	header := t.frame.Names()
	if offset < 0 {
		offset = 0
	}
	end := min(offset+size, t.Len())
	if offset >= end {
		return header, nil
	}

	indexes := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		indexes = append(indexes, i)
	}
	page := t.frame.Subset(indexes)

	rows := make([][]string, page.Nrow())
	for r := range rows {
		row := make([]string, page.Ncol())
		for c := range row {
			row[c] = cellText(page.Elem(r, c))
		}
		rows[r] = row
	}
	return header, rows
}

func cellText(e series.Element) string {
	switch {
	case e.IsNA():
		return ""
	case e.Type() == series.Float:
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	default:
		return e.String()
	}
}
