package config

import (
    "os"

    "github.com/joho/godotenv"
)

type Config struct {
    Port string
    // RateSource selects the table provider: "seed" (default) or "xlsx".
    RateSource    string
    RatesXLSXPath string
    // FlatTierPolicy selects the flat lookup strategy: "half-ounce"
    // (default) or "whole-ounce".
    FlatTierPolicy string
    // ExtrapolationStep and ExtrapolationCeilingOz override the
    // builder defaults when set; parsed where the builder is wired.
    ExtrapolationStep      string
    ExtrapolationCeilingOz string
}

func Load() Config {
    // Optional .env for local runs; absence is fine.
    _ = godotenv.Load()

    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }
    return Config{
        Port:                   port,
        RateSource:             os.Getenv("RATE_SOURCE"),
        RatesXLSXPath:          os.Getenv("RATES_XLSX_PATH"),
        FlatTierPolicy:         os.Getenv("FLAT_TIER_POLICY"),
        ExtrapolationStep:      os.Getenv("EXTRAPOLATION_STEP"),
        ExtrapolationCeilingOz: os.Getenv("EXTRAPOLATION_CEILING_OZ"),
    }
}
