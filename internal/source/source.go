package source

import "strings"

// Logical column names shared by all sources. Loaders normalize whatever
// layout their origin format uses into rows keyed by these names.
const (
    ColMailClass = "mail_class"
    ColMailType  = "mail_type"
    ColSortation = "sortation_level"
    ColWeight    = "weight"
    ColRate      = "rate"
)

// Row is one normalized rate record, column name -> raw cell value.
type Row map[string]string

// Sheet is a logical sheet of normalized rows. Columns lists the logical
// columns the source was able to provide, so consumers can detect a
// structurally broken origin before touching any rows.
type Sheet struct {
    Name    string
    Columns []string
    Rows    []Row
}

// Missing returns the subset of cols not present in the sheet.
func (s Sheet) Missing(cols ...string) []string {
    have := make(map[string]bool, len(s.Columns))
    for _, c := range s.Columns {
        have[c] = true
    }
    var missing []string
    for _, c := range cols {
        if !have[c] {
            missing = append(missing, c)
        }
    }
    return missing
}

// Source supplies the two logical sheets a rate table is built from.
// Sources are independent; there is no merging across sources.
type Source interface {
    LetterRates() (Sheet, error)
    FlatRates() (Sheet, error)
}

// NewByName returns a Source by provider name.
// Unknown or empty names fall back to the built-in seed.
func NewByName(name, xlsxPath string) Source {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case "xlsx":
        return NewXLSX(xlsxPath)
    case "seed", "":
        return NewSeed()
    default:
        return NewSeed()
    }
}
