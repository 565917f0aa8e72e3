package rate

import "github.com/shopspring/decimal"

// Shape is the physical mail-piece category. It decides which sub-table
// a lookup goes through: letters price by sortation level, flats by
// weight tier.
type Shape string

const (
    ShapeLetter Shape = "Letter"
    ShapeFlat   Shape = "Flat"
)

// Canonical mail classes. The table keys on plain strings, so classes
// beyond these (presort variants and the like) load and resolve fine;
// these are just the ones the alias table maps onto.
const (
    ClassFirstClass = "First-Class Mail"
    ClassMarketing  = "Marketing Mail"
)

// Canonical mail types.
const (
    TypeAutomation    = "automation"
    TypeNonMachinable = "non-machinable"
)

// Letter sortation levels, finest to coarsest.
const (
    SortFiveDigit = "5-Digit"
    SortAADC      = "AADC"
    SortMixedAADC = "Mixed AADC"
)

// flatTier is one weight tier of a flat sub-table. Tiers are kept
// sorted by ounces so any in-range weight selects exactly one rate.
type flatTier struct {
    Ounces float64
    Rate   decimal.Decimal
}

// Table is an immutable postage rate table. It is built once by a
// Builder and read-only afterwards, so any number of concurrent
// resolvers may share one instance without locking.
type Table struct {
    // class -> type -> sortation -> rate
    letters map[string]map[string]map[string]decimal.Decimal
    // class -> type -> tiers sorted by ounces
    flats map[string]map[string][]flatTier
}

func newTable() *Table {
    return &Table{
        letters: map[string]map[string]map[string]decimal.Decimal{},
        flats:   map[string]map[string][]flatTier{},
    }
}

// LetterRate returns the rate for a (class, type, sortation) letter key.
func (t *Table) LetterRate(class, mailType, sortation string) (decimal.Decimal, bool) {
    byType, ok := t.letters[class]
    if !ok {
        return decimal.Decimal{}, false
    }
    bySort, ok := byType[mailType]
    if !ok {
        return decimal.Decimal{}, false
    }
    r, ok := bySort[sortation]
    return r, ok
}

// flatTiers returns the sorted weight tiers for a (class, type) flat key.
func (t *Table) flatTiers(class, mailType string) ([]flatTier, bool) {
    byType, ok := t.flats[class]
    if !ok {
        return nil, false
    }
    tiers, ok := byType[mailType]
    return tiers, ok && len(tiers) > 0
}

// MaxFlatOunces returns the largest defined tier for a (class, type)
// flat key, or 0 when none exists.
func (t *Table) MaxFlatOunces(class, mailType string) float64 {
    tiers, ok := t.flatTiers(class, mailType)
    if !ok {
        return 0
    }
    return tiers[len(tiers)-1].Ounces
}
