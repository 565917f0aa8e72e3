package main

import (
    "fmt"
    "os"
    "strconv"

    "github.com/shopspring/decimal"
    log "github.com/sirupsen/logrus"
    "github.com/spf13/cobra"

    "postagecalc/internal/config"
    "postagecalc/internal/export"
    "postagecalc/internal/rate"
    "postagecalc/internal/source"
)

var calcFlags struct {
    weightOz     float64
    shape        string
    mailClass    string
    mailType     string
    sortation    string
    quantity     int
    originZIP    string
    destZIP      string
    exportFormat string
    outPath      string
}

func main() {
    root := &cobra.Command{
        Use:           "postage",
        Short:         "Estimate USPS postage for letters and flats",
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.AddCommand(newCalculateCmd())
    if err := root.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, "Error:", err)
        os.Exit(1)
    }
}

func newCalculateCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "calculate",
        Short: "Calculate postage for one mail piece and optionally export the estimate",
        RunE:  runCalculate,
    }
    f := cmd.Flags()
    f.Float64Var(&calcFlags.weightOz, "weight", 0, "piece weight in ounces (required)")
    f.StringVar(&calcFlags.shape, "shape", "", "mail piece shape: letter or flat")
    f.StringVar(&calcFlags.mailClass, "class", rate.ClassFirstClass, "mail class")
    f.StringVar(&calcFlags.mailType, "type", rate.TypeAutomation, "mail type")
    f.StringVar(&calcFlags.sortation, "sortation", "", "letter sortation level (5-Digit, AADC, Mixed AADC)")
    f.IntVar(&calcFlags.quantity, "quantity", 1, "number of pieces")
    f.StringVar(&calcFlags.originZIP, "origin-zip", "", "origin ZIP code (optional, 5 characters)")
    f.StringVar(&calcFlags.destZIP, "dest-zip", "", "destination ZIP code (optional, 5 characters)")
    f.StringVar(&calcFlags.exportFormat, "export", "", "export format: csv or pdf")
    f.StringVar(&calcFlags.outPath, "out", "", "export file path (defaults to postage_estimate.<format>)")
    cmd.MarkFlagRequired("weight")
    return cmd
}

func runCalculate(cmd *cobra.Command, args []string) error {
    if calcFlags.quantity < 1 {
        return fmt.Errorf("quantity must be at least 1")
    }
    for _, zip := range []string{calcFlags.originZIP, calcFlags.destZIP} {
        if zip != "" && len(zip) != 5 {
            return fmt.Errorf("ZIP codes must be 5 characters, got %q", zip)
        }
    }

    cfg := config.Load()
    table, err := buildTable(cfg)
    if err != nil {
        return fmt.Errorf("building rate table: %w", err)
    }
    resolver := rate.NewResolver(table, rate.TierPolicyByName(cfg.FlatTierPolicy))

    req := rate.Request{
        WeightOz:       calcFlags.weightOz,
        Shape:          calcFlags.shape,
        MailClass:      calcFlags.mailClass,
        MailType:       calcFlags.mailType,
        SortationLevel: calcFlags.sortation,
    }
    res, err := resolver.Resolve(req)
    if err != nil {
        return err
    }
    if !res.Found {
        return fmt.Errorf("rate not found: %s", res.Reason)
    }

    sum := export.New(req, res, calcFlags.quantity, calcFlags.originZIP, calcFlags.destZIP)
    for _, f := range sum.Fields {
        fmt.Printf("%s: %s\n", f.Label, f.Value)
    }
    fmt.Println(export.PricingNote)

    switch calcFlags.exportFormat {
    case "":
        return nil
    case "csv":
        return writeExport(sum.WriteCSVBytes, export.CSVFileName)
    case "pdf":
        return writeExport(sum.PDF, export.PDFFileName)
    default:
        return fmt.Errorf("unsupported export format %q (want csv or pdf)", calcFlags.exportFormat)
    }
}

func writeExport(render func() ([]byte, error), defaultName string) error {
    path := calcFlags.outPath
    if path == "" {
        path = defaultName
    }
    b, err := render()
    if err != nil {
        return err
    }
    if err := os.WriteFile(path, b, 0o644); err != nil {
        return err
    }
    fmt.Println("Wrote", path)
    return nil
}

// buildTable mirrors the api entry point's wiring: configured source,
// optional extrapolation overrides, fatal on structural load errors.
func buildTable(cfg config.Config) (*rate.Table, error) {
    b := rate.NewBuilder()
    if cfg.ExtrapolationStep != "" {
        if d, err := decimal.NewFromString(cfg.ExtrapolationStep); err == nil && !d.IsNegative() {
            b.Step = d
        } else {
            log.Warnf("ignoring invalid EXTRAPOLATION_STEP=%q", cfg.ExtrapolationStep)
        }
    }
    if cfg.ExtrapolationCeilingOz != "" {
        if f, err := strconv.ParseFloat(cfg.ExtrapolationCeilingOz, 64); err == nil && f > 0 {
            b.CeilingOz = f
        } else {
            log.Warnf("ignoring invalid EXTRAPOLATION_CEILING_OZ=%q", cfg.ExtrapolationCeilingOz)
        }
    }
    return b.BuildFrom(source.NewByName(cfg.RateSource, cfg.RatesXLSXPath))
}
