package main

import (
    "net/http"
    "os"
    "strconv"
    "time"

    "github.com/shopspring/decimal"
    log "github.com/sirupsen/logrus"

    "postagecalc/internal/config"
    "postagecalc/internal/rate"
    "postagecalc/internal/server"
    "postagecalc/internal/source"
)

func main() {
    cfg := config.Load()

    table, err := buildTable(cfg)
    if err != nil {
        log.Fatalf("failed to build rate table: %v", err)
    }

    policy := rate.TierPolicyByName(cfg.FlatTierPolicy)
    resolver := rate.NewResolver(table, policy)
    h := server.New(resolver)

    srv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           h,
        ReadTimeout:       10 * time.Second,
        ReadHeaderTimeout: 10 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    src := cfg.RateSource
    if src == "" {
        src = "seed"
    }
    log.Infof("api listening on :%s (RATE_SOURCE=%s, FLAT_TIER_POLICY=%s)", cfg.Port, src, policy)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Errorln("server error:", err)
        os.Exit(1)
    }
}

// buildTable wires the configured source into a builder, applying any
// extrapolation overrides. Structural load errors are fatal upstream:
// the process refuses to serve from a partial table.
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
