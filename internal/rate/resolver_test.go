package rate

import (
    "strings"
    "testing"

    "postagecalc/internal/source"
)

func seedTable(t *testing.T) *Table {
    t.Helper()
    tbl, err := Build(source.NewSeed())
    if err != nil {
        t.Fatalf("building seed table: %v", err)
    }
    return tbl
}

func TestResolveLetterFiveDigit(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    res, err := rv.Resolve(Request{
        WeightOz:       3.5,
        Shape:          "Letter",
        MailClass:      "First-Class Mail",
        MailType:       "Automation",
        SortationLevel: "5-Digit",
    })
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !res.Found || res.Rate.String() != "0.593" {
        t.Fatalf("expected rate 0.593, got %s (found=%v, reason=%s)", res.Rate, res.Found, res.Reason)
    }
    if res.EffectiveShape != ShapeLetter {
        t.Fatalf("expected Letter, got %s", res.EffectiveShape)
    }
}

func TestResolveLetterRateUnaffectedByWeightRounding(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    for _, w := range []float64{0.4, 1.0, 2.7, 3.49, 3.5} {
        res, err := rv.Resolve(Request{WeightOz: w, Shape: "letter", MailClass: "fcm", SortationLevel: SortAADC})
        if err != nil {
            t.Fatalf("weight %v: %v", w, err)
        }
        if !res.Found || res.Rate.String() != "0.640" {
            t.Fatalf("weight %v: expected 0.640, got %s", w, res.Rate)
        }
    }
}

func TestResolveLetterSwitchesToFlatAboveLimit(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    res, err := rv.Resolve(Request{
        WeightOz:       4.0,
        Shape:          "Letter",
        MailClass:      "First-Class Mail",
        SortationLevel: "5-Digit",
    })
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.EffectiveShape != ShapeFlat {
        t.Fatalf("expected shape switched to Flat, got %s", res.EffectiveShape)
    }
    if !res.Found || res.Rate.String() != "2.045" {
        t.Fatalf("expected 4oz flat rate 2.045, got %s", res.Rate)
    }
}

func TestResolveShapeSwitchIgnoresSortation(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    base := Request{WeightOz: 5.2, Shape: "Letter", MailClass: "First-Class Mail"}
    for _, sortation := range []string{"", "5-Digit", "Mixed AADC", "nonsense"} {
        req := base
        req.SortationLevel = sortation
        res, err := rv.Resolve(req)
        if err != nil {
            t.Fatalf("sortation %q: %v", sortation, err)
        }
        if !res.Found || res.EffectiveShape != ShapeFlat {
            t.Fatalf("sortation %q: expected a flat hit, got found=%v shape=%s", sortation, res.Found, res.EffectiveShape)
        }
        // round(5.2*2)/2 = 5.0 -> extrapolated 5oz tier
        if res.Rate.String() != "2.25" {
            t.Fatalf("sortation %q must not influence the rate, got %s", sortation, res.Rate)
        }
    }
}

func TestResolveLetterWithoutSortationIsNotFound(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    res, err := rv.Resolve(Request{WeightOz: 1, Shape: "letter", MailClass: ClassFirstClass})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.Found {
        t.Fatalf("expected NotFound without a sortation level")
    }
}

func TestResolveUnknownMailClassIsNotFound(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    res, err := rv.Resolve(Request{
        WeightOz:       2.0,
        Shape:          "letter",
        MailClass:      "Parcel Select",
        SortationLevel: "5-Digit",
    })
    if err != nil {
        t.Fatalf("a lookup miss must be a value, not an error: %v", err)
    }
    if res.Found {
        t.Fatalf("expected NotFound for unknown mail class")
    }
    if !strings.Contains(res.Reason, "Parcel Select") {
        t.Fatalf("reason should name the class: %s", res.Reason)
    }
}

func TestResolveUnknownShapeDefaultsByWeight(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)

    res, err := rv.Resolve(Request{WeightOz: 2, Shape: "Digest", MailClass: "fcm", SortationLevel: SortFiveDigit})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.EffectiveShape != ShapeLetter {
        t.Fatalf("light digest should default to Letter, got %s", res.EffectiveShape)
    }

    res, err = rv.Resolve(Request{WeightOz: 5, Shape: "Digest", MailClass: "fcm"})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.EffectiveShape != ShapeFlat {
        t.Fatalf("heavy digest should default to Flat, got %s", res.EffectiveShape)
    }
}

func TestResolveFlatHalfOunceTopEndFallback(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    res, err := rv.Resolve(Request{WeightOz: 70, Shape: "flat", MailClass: ClassFirstClass})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    // Above every tier the policy charges the largest one (12oz).
    if !res.Found || res.Rate.String() != "3.65" {
        t.Fatalf("expected top-tier fallback 3.65, got %s (found=%v)", res.Rate, res.Found)
    }
}

func TestResolveFlatWholeOunceCeilingExceeded(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyWholeOunce)
    res, err := rv.Resolve(Request{WeightOz: 13.0, Shape: "Flat", MailClass: ClassFirstClass})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if res.Found {
        t.Fatalf("expected NotFound above the supported ceiling")
    }
    if !strings.Contains(res.Reason, "12") {
        t.Fatalf("reason should name the supported ceiling: %s", res.Reason)
    }
}

func TestResolveFlatWholeOunceRoundsUp(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyWholeOunce)
    res, err := rv.Resolve(Request{WeightOz: 3.1, Shape: "flat", MailClass: "First-Class Mail"})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    // ceil(3.1) = 4oz tier
    if !res.Found || res.Rate.String() != "2.045" {
        t.Fatalf("expected 4oz tier 2.045, got %s", res.Rate)
    }
}

func TestRequestValidate(t *testing.T) {
    rv := NewResolver(seedTable(t), TierPolicyHalfOunce)
    if _, err := rv.Resolve(Request{WeightOz: 0, Shape: "letter"}); err == nil {
        t.Fatalf("expected error for zero weight")
    }
    if _, err := rv.Resolve(Request{WeightOz: 70.5, Shape: "flat"}); err == nil {
        t.Fatalf("expected error for weight above %v oz", MaxWeightOz)
    }
}

func TestTierPolicyByName(t *testing.T) {
    if p := TierPolicyByName("whole-ounce"); p != TierPolicyWholeOunce {
        t.Fatalf("expected whole-ounce policy, got %s", p)
    }
    if p := TierPolicyByName(""); p != TierPolicyHalfOunce {
        t.Fatalf("expected half-ounce default, got %s", p)
    }
    if p := TierPolicyByName("bogus"); p != TierPolicyHalfOunce {
        t.Fatalf("unknown names fall back to half-ounce, got %s", p)
    }
}

func TestNormalizeAliases(t *testing.T) {
    cases := map[string]string{
        "fcm":                                  ClassFirstClass,
        "First Class":                          ClassFirstClass,
        "First-Class Mail Automation Letters":  ClassFirstClass,
        "USPS Marketing Mail":                  ClassMarketing,
        "standard mail":                        ClassMarketing,
        "Priority Mail Express":                "Priority Mail Express", // passes through
    }
    for raw, want := range cases {
        if got := NormalizeMailClass(raw); got != want {
            t.Fatalf("NormalizeMailClass(%q) = %q, want %q", raw, got, want)
        }
    }
    if got := NormalizeMailType(" AUTO "); got != TypeAutomation {
        t.Fatalf("expected automation, got %q", got)
    }
    if got := NormalizeMailType("Non Machinable"); got != TypeNonMachinable {
        t.Fatalf("expected non-machinable, got %q", got)
    }
}
