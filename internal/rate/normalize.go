package rate

import "strings"

// aliasTable maps messy user- or sheet-supplied vocabulary onto a
// canonical form. Keys are folded (lower-cased, spaces and hyphens
// stripped) so "FCM", "fcm " and "F C M" all land on the same entry.
// Unknown input passes through trimmed, so a typo surfaces later as a
// normal lookup miss instead of a hard failure here.
type aliasTable struct {
    canonical map[string]string
    // substring fallbacks, checked in order against the folded input
    substrings [][2]string
}

func (a aliasTable) normalize(raw string) string {
    folded := foldKey(raw)
    if c, ok := a.canonical[folded]; ok {
        return c
    }
    for _, sub := range a.substrings {
        if strings.Contains(folded, sub[0]) {
            return sub[1]
        }
    }
    return strings.TrimSpace(raw)
}

func foldKey(s string) string {
    s = strings.ToLower(strings.TrimSpace(s))
    s = strings.ReplaceAll(s, " ", "")
    s = strings.ReplaceAll(s, "-", "")
    return s
}

var mailClassAliases = aliasTable{
    canonical: map[string]string{
        "fcm":               ClassFirstClass,
        "firstclass":        ClassFirstClass,
        "firstclassmail":    ClassFirstClass,
        "marketing":         ClassMarketing,
        "marketingmail":     ClassMarketing,
        "uspsmarketingmail": ClassMarketing,
        "standardmail":      ClassMarketing,
    },
    substrings: [][2]string{
        {"firstclass", ClassFirstClass},
        {"marketing", ClassMarketing},
    },
}

var mailTypeAliases = aliasTable{
    canonical: map[string]string{
        "auto":          TypeAutomation,
        "automated":     TypeAutomation,
        "automation":    TypeAutomation,
        "nonmachinable": TypeNonMachinable,
        "nonauto":       TypeNonMachinable,
    },
}

// NormalizeMailClass maps a raw mail class onto its canonical form.
// Sheet categories like "First-Class Mail Automation Letters" match by
// substring; anything unrecognized passes through trimmed.
func NormalizeMailClass(raw string) string {
    return mailClassAliases.normalize(raw)
}

// NormalizeMailType maps a raw mail type onto its canonical lower-case
// form; unrecognized values pass through lower-cased and trimmed.
func NormalizeMailType(raw string) string {
    n := mailTypeAliases.normalize(raw)
    return strings.ToLower(n)
}

// normalizeShape resolves a raw shape string. Unrecognized aliases
// ("Digest", the historical "Parcel", or anything else) default by
// weight: letter-sized pieces up to the letter limit, flats above it.
func normalizeShape(raw string, weightOz float64) Shape {
    switch foldKey(raw) {
    case "letter":
        return ShapeLetter
    case "flat", "largeenvelope":
        return ShapeFlat
    default:
        if weightOz <= MaxLetterOunces {
            return ShapeLetter
        }
        return ShapeFlat
    }
}
