package rate

import (
    "fmt"
    "math"
    "strings"

    "github.com/shopspring/decimal"
)

// MaxLetterOunces is the heaviest piece that can price as a letter;
// above it a letter is billed as a flat and sortation no longer applies.
const MaxLetterOunces = 3.5

// MaxWeightOz is the heaviest piece the calculator accepts at all.
const MaxWeightOz = 70.0

// TierPolicy names the flat-lookup tie-break strategy. Two appear in
// the rate-chart lineage and downstream consumers depend on either, so
// both are first-class and configuration picks one.
type TierPolicy string

const (
    // TierPolicyHalfOunce rounds the weight to the nearest half ounce
    // and selects the smallest defined tier at or above it, falling
    // back to the largest tier when the weight is above every tier.
    // Never misses on weight, but the top-end fallback is a known
    // approximation that can undercharge heavy pieces.
    TierPolicyHalfOunce TierPolicy = "half-ounce"
    // TierPolicyWholeOunce rounds the weight up to the next whole
    // ounce and requires that exact tier; weights above the supported
    // ceiling resolve to NotFound.
    TierPolicyWholeOunce TierPolicy = "whole-ounce"
)

// TierPolicyByName returns a policy by name.
// Unknown or empty names fall back to the half-ounce policy.
func TierPolicyByName(name string) TierPolicy {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case string(TierPolicyWholeOunce), "wholeounce", "whole":
        return TierPolicyWholeOunce
    default:
        return TierPolicyHalfOunce
    }
}

// Request is one postage question: raw, as the caller supplied it.
// Normalization happens inside Resolve.
type Request struct {
    WeightOz       float64
    Shape          string
    MailClass      string
    MailType       string
    SortationLevel string
}

// Validate rejects weights outside the supported domain. A bad weight
// is malformed input, not a lookup miss, so it is an error rather than
// a NotFound result.
func (r Request) Validate() error {
    if r.WeightOz <= 0 {
        return fmt.Errorf("weight must be positive, got %v oz", r.WeightOz)
    }
    if r.WeightOz > MaxWeightOz {
        return fmt.Errorf("weight must be at most %v oz, got %v oz", MaxWeightOz, r.WeightOz)
    }
    return nil
}

// Result is the outcome of a resolution. A miss is a value: Found is
// false and Reason says why, with Rate zero. EffectiveShape is always
// set, switched or not.
type Result struct {
    Rate           decimal.Decimal
    Found          bool
    Reason         string
    EffectiveShape Shape
}

// Resolver answers postage requests against one immutable table.
// Resolution is a pure function of (request, table); resolvers are safe
// for concurrent use.
type Resolver struct {
    table  *Table
    policy TierPolicy
}

func NewResolver(t *Table, policy TierPolicy) *Resolver {
    if policy == "" {
        policy = TierPolicyHalfOunce
    }
    return &Resolver{table: t, policy: policy}
}

// Resolve normalizes the request, applies the letter-to-flat switch,
// and looks up (or extrapolation-aware searches) the rate.
func (rv *Resolver) Resolve(req Request) (Result, error) {
    if err := req.Validate(); err != nil {
        return Result{}, err
    }

    shape := normalizeShape(req.Shape, req.WeightOz)
    class := NormalizeMailClass(req.MailClass)
    mailType := NormalizeMailType(req.MailType)
    if mailType == "" {
        mailType = TypeAutomation
    }
    sortation := strings.TrimSpace(req.SortationLevel)

    // Oversized letters are billed as flats; sortation no longer applies.
    if shape == ShapeLetter && req.WeightOz > MaxLetterOunces {
        shape = ShapeFlat
        sortation = ""
    }

    if shape == ShapeLetter {
        return rv.resolveLetter(class, mailType, sortation), nil
    }
    return rv.resolveFlat(class, mailType, req.WeightOz), nil
}

func (rv *Resolver) resolveLetter(class, mailType, sortation string) Result {
    if sortation == "" {
        return notFound(ShapeLetter, "no sortation level supplied for letter rate")
    }
    r, ok := rv.table.LetterRate(class, mailType, sortation)
    if !ok {
        return notFound(ShapeLetter, fmt.Sprintf("no %s %s letter rate at sortation level %q", class, mailType, sortation))
    }
    return Result{Rate: r, Found: true, EffectiveShape: ShapeLetter}
}

func (rv *Resolver) resolveFlat(class, mailType string, weightOz float64) Result {
    tiers, ok := rv.table.flatTiers(class, mailType)
    if !ok {
        return notFound(ShapeFlat, fmt.Sprintf("no %s %s flat rates", class, mailType))
    }
    switch rv.policy {
    case TierPolicyWholeOunce:
        return flatByWholeOunce(tiers, weightOz)
    default:
        return flatByHalfOunce(tiers, weightOz)
    }
}

func flatByHalfOunce(tiers []flatTier, weightOz float64) Result {
    rounded := math.Round(weightOz*2) / 2
    for _, t := range tiers {
        if t.Ounces >= rounded {
            return Result{Rate: t.Rate, Found: true, EffectiveShape: ShapeFlat}
        }
    }
    // Above every defined tier: charge the largest one.
    top := tiers[len(tiers)-1]
    return Result{Rate: top.Rate, Found: true, EffectiveShape: ShapeFlat}
}

func flatByWholeOunce(tiers []flatTier, weightOz float64) Result {
    oz := math.Ceil(weightOz)
    max := tiers[len(tiers)-1].Ounces
    if oz > max {
        return notFound(ShapeFlat, fmt.Sprintf("weight %g oz exceeds the supported maximum of %g oz", weightOz, max))
    }
    for _, t := range tiers {
        if t.Ounces == oz {
            return Result{Rate: t.Rate, Found: true, EffectiveShape: ShapeFlat}
        }
    }
    return notFound(ShapeFlat, fmt.Sprintf("no flat rate tier at %g oz", oz))
}

func notFound(shape Shape, reason string) Result {
    return Result{Found: false, Reason: reason, EffectiveShape: shape}
}
