package server

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"

    "postagecalc/internal/rate"
    "postagecalc/internal/source"
)

func newTestHandler(t *testing.T, policy rate.TierPolicy) http.Handler {
    t.Helper()
    table, err := rate.Build(source.NewSeed())
    if err != nil {
        t.Fatalf("building seed table: %v", err)
    }
    return New(rate.NewResolver(table, policy))
}

func TestHealthz(t *testing.T) {
    h := newTestHandler(t, rate.TierPolicyHalfOunce)
    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if body := rr.Body.String(); body != "ok" {
        t.Fatalf("expected body 'ok', got %q", body)
    }
}

func TestGetRates_Letter(t *testing.T) {
    h := newTestHandler(t, rate.TierPolicyHalfOunce)
    q := url.Values{
        "weight_oz":       {"3.5"},
        "shape":           {"Letter"},
        "mail_class":      {"First-Class Mail"},
        "mail_type":       {"automation"},
        "sortation_level": {"5-Digit"},
    }
    req := httptest.NewRequest(http.MethodGet, "/rates?"+q.Encode(), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var res RateResponse
    if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if res.Rate != "0.593" || res.EffectiveShape != "Letter" {
        t.Fatalf("unexpected response: %+v", res)
    }
}

func TestGetRates_LetterSwitchedToFlat(t *testing.T) {
    h := newTestHandler(t, rate.TierPolicyHalfOunce)
    q := url.Values{
        "weight_oz":       {"4.0"},
        "shape":           {"Letter"},
        "mail_class":      {"First-Class Mail"},
        "sortation_level": {"5-Digit"},
    }
    req := httptest.NewRequest(http.MethodGet, "/rates?"+q.Encode(), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var res RateResponse
    if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if res.EffectiveShape != "Flat" || res.Rate != "2.045" {
        t.Fatalf("unexpected response: %+v", res)
    }
}

func TestCreateEstimate(t *testing.T) {
    h := newTestHandler(t, rate.TierPolicyHalfOunce)
    body := `{"weight_oz":3.5,"shape":"letter","mail_class":"fcm","sortation_level":"5-Digit","quantity":100,"origin_zip":"10001","destination_zip":"94105"}`
    req := httptest.NewRequest(http.MethodPost, "/estimates", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    var res EstimateResponse
    if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
        t.Fatalf("failed to unmarshal: %v", err)
    }
    if res.MailClass != "First-Class Mail" || res.CostPerPiece != "$0.59" || res.TotalCost != "$59.30" {
        t.Fatalf("unexpected response: %+v", res)
    }
    if res.PricingNote == "" {
        t.Fatalf("expected the no-zones pricing note")
    }
}

func TestExportEstimate_CSV(t *testing.T) {
    h := newTestHandler(t, rate.TierPolicyHalfOunce)
    body := `{"weight_oz":1,"shape":"flat","mail_class":"First-Class Mail","quantity":2}`
    req := httptest.NewRequest(http.MethodPost, "/estimates/export?format=csv", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
    }
    if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
        t.Fatalf("expected text/csv, got %s", ct)
    }
    if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "postage_estimate.csv") {
        t.Fatalf("unexpected disposition: %s", cd)
    }
    if !strings.HasPrefix(rr.Body.String(), "Shape,Mail Class") {
        t.Fatalf("unexpected csv body: %s", rr.Body.String())
    }
}

func TestExportEstimate_PDF(t *testing.T) {
    h := newTestHandler(t, rate.TierPolicyHalfOunce)
    body := `{"weight_oz":1,"shape":"flat","mail_class":"First-Class Mail"}`
    req := httptest.NewRequest(http.MethodPost, "/estimates/export?format=pdf", strings.NewReader(body))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.HasPrefix(rr.Body.String(), "%PDF-") {
        t.Fatalf("expected a pdf payload")
    }
}

func TestRequestIDHeaderPresent(t *testing.T) {
    h := newTestHandler(t, rate.TierPolicyHalfOunce)
    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if rid := rr.Header().Get("X-Request-ID"); rid == "" {
        t.Fatalf("expected X-Request-ID header to be set")
    }
}
