package source

import (
    "fmt"
    "strings"

    "github.com/xuri/excelize/v2"
)

// Workbook sheet names the xlsx source reads. Only these two sheets are
// consulted; anything else in the workbook is ignored.
const (
    LetterSheetName = "USPS_Letter_Rates"
    FlatSheetName   = "USPS_Flat_Rates"
)

// letterSortationColumns are the wide-format columns of the letter
// sheet, one per sortation level.
var letterSortationColumns = []string{"5-Digit", "AADC", "Mixed AADC"}

const categoryColumn = "Category"

// XLSX loads rate sheets from a spreadsheet workbook. The workbook is
// wide-format (one column per sortation level or ounce tier); rows are
// flattened into the normalized long form before being returned.
type XLSX struct {
    path string
}

func NewXLSX(path string) *XLSX { return &XLSX{path: path} }

// LetterRates flattens the letter sheet: each (row, sortation column)
// cell with a value becomes one normalized row.
func (x *XLSX) LetterRates() (Sheet, error) {
    rows, err := x.readSheet(LetterSheetName)
    if err != nil {
        return Sheet{}, err
    }
    sh := Sheet{Name: LetterSheetName}
    if len(rows) == 0 {
        return sh, nil
    }

    header := rows[0]
    classIdx := indexOf(header, categoryColumn)
    sortIdx := map[string]int{}
    for _, col := range letterSortationColumns {
        if i := indexOf(header, col); i >= 0 {
            sortIdx[col] = i
        }
    }
    if classIdx >= 0 {
        sh.Columns = append(sh.Columns, ColMailClass)
    }
    if len(sortIdx) > 0 {
        sh.Columns = append(sh.Columns, ColSortation, ColRate)
    }

    for _, cells := range rows[1:] {
        class := cellAt(cells, classIdx)
        for _, col := range letterSortationColumns {
            i, ok := sortIdx[col]
            if !ok {
                continue
            }
            rate := cellAt(cells, i)
            if strings.TrimSpace(rate) == "" {
                continue
            }
            sh.Rows = append(sh.Rows, Row{
                ColMailClass: class,
                ColSortation: col,
                ColRate:      rate,
            })
        }
    }
    return sh, nil
}

// FlatRates flattens the flat sheet: each (row, ounce column) cell with
// a value becomes one normalized row, keeping the "Noz" label as the
// weight so the builder owns the parsing.
func (x *XLSX) FlatRates() (Sheet, error) {
    rows, err := x.readSheet(FlatSheetName)
    if err != nil {
        return Sheet{}, err
    }
    sh := Sheet{Name: FlatSheetName}
    if len(rows) == 0 {
        return sh, nil
    }

    header := rows[0]
    classIdx := indexOf(header, categoryColumn)
    type weightCol struct {
        label string
        idx   int
    }
    var weightCols []weightCol
    for i, h := range header {
        if strings.HasSuffix(strings.ToLower(strings.TrimSpace(h)), "oz") {
            weightCols = append(weightCols, weightCol{label: strings.TrimSpace(h), idx: i})
        }
    }
    if classIdx >= 0 {
        sh.Columns = append(sh.Columns, ColMailClass)
    }
    if len(weightCols) > 0 {
        sh.Columns = append(sh.Columns, ColWeight, ColRate)
    }

    for _, cells := range rows[1:] {
        class := cellAt(cells, classIdx)
        for _, wc := range weightCols {
            rate := cellAt(cells, wc.idx)
            if strings.TrimSpace(rate) == "" {
                continue
            }
            sh.Rows = append(sh.Rows, Row{
                ColMailClass: class,
                ColWeight:    wc.label,
                ColRate:      rate,
            })
        }
    }
    return sh, nil
}

func (x *XLSX) readSheet(name string) ([][]string, error) {
    f, err := excelize.OpenFile(x.path)
    if err != nil {
        return nil, fmt.Errorf("opening workbook %s: %w", x.path, err)
    }
    defer f.Close()
    rows, err := f.GetRows(name)
    if err != nil {
        return nil, fmt.Errorf("reading sheet %q: %w", name, err)
    }
    return rows, nil
}

func indexOf(header []string, col string) int {
    for i, h := range header {
        if strings.EqualFold(strings.TrimSpace(h), col) {
            return i
        }
    }
    return -1
}

// cellAt tolerates excelize trimming trailing empty cells from a row.
func cellAt(cells []string, i int) string {
    if i < 0 || i >= len(cells) {
        return ""
    }
    return cells[i]
}
