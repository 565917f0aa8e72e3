package rate

import (
    "math"
    "sort"
    "strconv"
    "strings"

    "github.com/shopspring/decimal"
    log "github.com/sirupsen/logrus"

    "postagecalc/internal/source"
)

// Extrapolation defaults. The per-ounce increment has no single source
// of truth in the published rate charts, so it is a named constant here
// rather than a value derived from the seed data; override the Builder
// fields to change either.
var DefaultStepPerOunce = decimal.RequireFromString("0.20")

const DefaultCeilingOunces = 12.0

// Builder accumulates rate rows and produces an immutable Table.
// Ingest both sheets, then Extrapolate, then Table.
type Builder struct {
    // Step is the per-ounce increment used to synthesize flat tiers
    // above the loaded range. CeilingOz is the last tier synthesized.
    Step      decimal.Decimal
    CeilingOz float64

    table *Table
}

func NewBuilder() *Builder {
    return &Builder{
        Step:      DefaultStepPerOunce,
        CeilingOz: DefaultCeilingOunces,
        table:     newTable(),
    }
}

// Build is the usual path: ingest both sheets from src, extrapolate,
// and return the finished table.
func Build(src source.Source) (*Table, error) {
    return NewBuilder().BuildFrom(src)
}

func (b *Builder) BuildFrom(src source.Source) (*Table, error) {
    letters, err := src.LetterRates()
    if err != nil {
        return nil, err
    }
    if err := b.IngestLetterSheet(letters); err != nil {
        return nil, err
    }
    flats, err := src.FlatRates()
    if err != nil {
        return nil, err
    }
    if err := b.IngestFlatSheet(flats); err != nil {
        return nil, err
    }
    b.Extrapolate()
    return b.Table(), nil
}

// IngestLetterSheet loads (class, sortation) -> rate rows. Rows with a
// missing or non-numeric rate are skipped, not fatal; a sheet that
// yields nothing usable is.
func (b *Builder) IngestLetterSheet(sh source.Sheet) error {
    if missing := sh.Missing(source.ColMailClass, source.ColSortation, source.ColRate); len(missing) > 0 {
        return &MissingColumnsError{Sheet: sh.Name, Missing: missing}
    }
    usable := 0
    for _, row := range sh.Rows {
        rate, ok := parseRate(row[source.ColRate])
        if !ok {
            log.WithFields(log.Fields{"sheet": sh.Name, "rate": row[source.ColRate]}).Warn("skipping letter row with unusable rate")
            continue
        }
        sortation := strings.TrimSpace(row[source.ColSortation])
        if sortation == "" {
            log.WithField("sheet", sh.Name).Warn("skipping letter row without sortation level")
            continue
        }
        class := NormalizeMailClass(row[source.ColMailClass])
        mailType := normalizeIngestType(row[source.ColMailType])
        b.putLetter(class, mailType, sortation, rate)
        usable++
    }
    if usable == 0 {
        return &EmptySheetError{Sheet: sh.Name}
    }
    return nil
}

// IngestFlatSheet loads (class, weight) -> rate rows. The weight cell
// is either a "<number>oz" label or a plain number; unparsable labels
// are skipped.
func (b *Builder) IngestFlatSheet(sh source.Sheet) error {
    if missing := sh.Missing(source.ColMailClass, source.ColWeight, source.ColRate); len(missing) > 0 {
        return &MissingColumnsError{Sheet: sh.Name, Missing: missing}
    }
    usable := 0
    for _, row := range sh.Rows {
        rate, ok := parseRate(row[source.ColRate])
        if !ok {
            log.WithFields(log.Fields{"sheet": sh.Name, "rate": row[source.ColRate]}).Warn("skipping flat row with unusable rate")
            continue
        }
        ounces, ok := parseOunces(row[source.ColWeight])
        if !ok {
            log.WithFields(log.Fields{"sheet": sh.Name, "weight": row[source.ColWeight]}).Warn("skipping flat row with unparsable weight")
            continue
        }
        class := NormalizeMailClass(row[source.ColMailClass])
        mailType := normalizeIngestType(row[source.ColMailType])
        b.putFlat(class, mailType, ounces, rate)
        usable++
    }
    if usable == 0 {
        return &EmptySheetError{Sheet: sh.Name}
    }
    b.sortFlats()
    return nil
}

// Extrapolate synthesizes whole-ounce flat tiers from just above each
// sub-table's current maximum up to CeilingOz, at Step per ounce,
// rounded to cents half-up. Only tiers strictly above the current
// maximum are added, so running it again is a no-op.
func (b *Builder) Extrapolate() {
    for _, byType := range b.table.flats {
        for mailType, tiers := range byType {
            if len(tiers) == 0 {
                continue
            }
            max := tiers[len(tiers)-1]
            for oz := math.Floor(max.Ounces) + 1; oz <= b.CeilingOz; oz++ {
                over := decimal.NewFromFloat(oz - max.Ounces)
                r := max.Rate.Add(b.Step.Mul(over)).Round(2)
                tiers = append(tiers, flatTier{Ounces: oz, Rate: r})
            }
            byType[mailType] = tiers
        }
    }
    b.sortFlats()
}

// Table returns the built table. The builder keeps no reference that
// would let later ingestion mutate it mid-use; treat the result as
// read-only.
func (b *Builder) Table() *Table {
    return b.table
}

func (b *Builder) putLetter(class, mailType, sortation string, r decimal.Decimal) {
    byType, ok := b.table.letters[class]
    if !ok {
        byType = map[string]map[string]decimal.Decimal{}
        b.table.letters[class] = byType
    }
    bySort, ok := byType[mailType]
    if !ok {
        bySort = map[string]decimal.Decimal{}
        byType[mailType] = bySort
    }
    bySort[sortation] = r
}

func (b *Builder) putFlat(class, mailType string, ounces float64, r decimal.Decimal) {
    byType, ok := b.table.flats[class]
    if !ok {
        byType = map[string][]flatTier{}
        b.table.flats[class] = byType
    }
    for i, t := range byType[mailType] {
        if t.Ounces == ounces {
            byType[mailType][i].Rate = r
            return
        }
    }
    byType[mailType] = append(byType[mailType], flatTier{Ounces: ounces, Rate: r})
}

func (b *Builder) sortFlats() {
    for _, byType := range b.table.flats {
        for _, tiers := range byType {
            sort.Slice(tiers, func(i, j int) bool { return tiers[i].Ounces < tiers[j].Ounces })
        }
    }
}

func parseRate(s string) (decimal.Decimal, bool) {
    s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
    if s == "" {
        return decimal.Decimal{}, false
    }
    d, err := decimal.NewFromString(s)
    if err != nil || d.IsNegative() {
        return decimal.Decimal{}, false
    }
    return d, true
}

// parseOunces accepts "3.5", "4oz" and "4 oz".
func parseOunces(s string) (float64, bool) {
    s = strings.ToLower(strings.TrimSpace(s))
    s = strings.TrimSpace(strings.TrimSuffix(s, "oz"))
    f, err := strconv.ParseFloat(s, 64)
    if err != nil || f <= 0 {
        return 0, false
    }
    return f, true
}

// normalizeIngestType defaults to automation when the source carries no
// mail type column, which is the common case for both sheets.
func normalizeIngestType(s string) string {
    if strings.TrimSpace(s) == "" {
        return TypeAutomation
    }
    return NormalizeMailType(s)
}
