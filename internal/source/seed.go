package source

// Seed is the built-in rate source: presort letter rates by sortation
// level and flat rates for the low ounce tiers. Tiers above the seeded
// range are synthesized by the table builder's extrapolation.
type Seed struct{}

func NewSeed() *Seed { return &Seed{} }

type seedLetter struct {
    class     string
    sortation string
    rate      string
}

type seedFlat struct {
    class  string
    weight string
    rate   string
}

var seedLetters = []seedLetter{
    {"First-Class Mail", "5-Digit", "0.593"},
    {"First-Class Mail", "AADC", "0.640"},
    {"First-Class Mail", "Mixed AADC", "0.672"},
    {"Marketing Mail", "5-Digit", "0.331"},
    {"Marketing Mail", "AADC", "0.356"},
    {"Marketing Mail", "Mixed AADC", "0.368"},
}

var seedFlats = []seedFlat{
    {"First-Class Mail", "1oz", "1.445"},
    {"First-Class Mail", "2oz", "1.645"},
    {"First-Class Mail", "3oz", "1.845"},
    {"First-Class Mail", "4oz", "2.045"},
    {"Marketing Mail", "1oz", "0.911"},
    {"Marketing Mail", "2oz", "0.966"},
    {"Marketing Mail", "3oz", "1.021"},
    {"Marketing Mail", "4oz", "1.076"},
}

func (s *Seed) LetterRates() (Sheet, error) {
    sh := Sheet{
        Name:    "seed_letter_rates",
        Columns: []string{ColMailClass, ColSortation, ColRate},
    }
    for _, r := range seedLetters {
        sh.Rows = append(sh.Rows, Row{
            ColMailClass: r.class,
            ColSortation: r.sortation,
            ColRate:      r.rate,
        })
    }
    return sh, nil
}

func (s *Seed) FlatRates() (Sheet, error) {
    sh := Sheet{
        Name:    "seed_flat_rates",
        Columns: []string{ColMailClass, ColWeight, ColRate},
    }
    for _, r := range seedFlats {
        sh.Rows = append(sh.Rows, Row{
            ColMailClass: r.class,
            ColWeight:    r.weight,
            ColRate:      r.rate,
        })
    }
    return sh, nil
}
