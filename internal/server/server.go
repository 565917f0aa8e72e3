package server

import (
    "encoding/json"
    "net/http"
    "strings"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/google/uuid"

    "postagecalc/internal/export"
    "postagecalc/internal/rate"
)

type Server struct {
    resolver *rate.Resolver
}

func New(resolver *rate.Resolver) http.Handler {
    s := &Server{resolver: resolver}
    r := chi.NewRouter()
    // Observability: Request ID and basic logger
    r.Use(requestIDMiddleware)
    r.Use(middleware.Logger)
    r.Get("/healthz", s.handleHealth)
    r.Get("/rates", s.handleGetRates)
    r.Post("/estimates", s.handleCreateEstimate)
    r.Post("/estimates/export", s.handleExportEstimate)
    return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusOK)
    w.Write([]byte("ok"))
}

// Rates
type RateResponse struct {
    Rate           string `json:"rate"`
    EffectiveShape string `json:"effective_shape"`
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    req := rate.Request{
        Shape:          q.Get("shape"),
        MailClass:      q.Get("mail_class"),
        MailType:       q.Get("mail_type"),
        SortationLevel: q.Get("sortation_level"),
    }
    if v := q.Get("weight_oz"); v != "" {
        if f, err := parseFloat(v); err == nil {
            req.WeightOz = f
        }
    }
    res, err := s.resolver.Resolve(req)
    if err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
        return
    }
    if !res.Found {
        writeErrorJSON(w, http.StatusNotFound, "rate_not_found", res.Reason)
        return
    }
    out := RateResponse{Rate: res.Rate.String(), EffectiveShape: string(res.EffectiveShape)}
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(out)
}

// Estimates
type EstimateRequest struct {
    WeightOz       float64 `json:"weight_oz"`
    Shape          string  `json:"shape"`
    MailClass      string  `json:"mail_class"`
    MailType       string  `json:"mail_type"`
    SortationLevel string  `json:"sortation_level"`
    Quantity       int     `json:"quantity"`
    OriginZIP      string  `json:"origin_zip"`
    DestinationZIP string  `json:"destination_zip"`
}

type EstimateResponse struct {
    Shape          string  `json:"shape"`
    MailClass      string  `json:"mail_class"`
    MailType       string  `json:"mail_type"`
    WeightOz       float64 `json:"weight_oz"`
    Quantity       int     `json:"quantity"`
    SortationLevel string  `json:"sortation_level"`
    OriginZIP      string  `json:"origin_zip"`
    DestinationZIP string  `json:"destination_zip"`
    CostPerPiece   string  `json:"cost_per_piece"`
    TotalCost      string  `json:"total_cost"`
    PricingNote    string  `json:"pricing_note"`
}

func (s *Server) handleCreateEstimate(w http.ResponseWriter, r *http.Request) {
    req, res, ok := s.decodeAndResolve(w, r)
    if !ok {
        return
    }
    sum := export.New(req.rateRequest(), res, req.Quantity, req.OriginZIP, req.DestinationZIP)
    out := EstimateResponse{
        WeightOz:    req.WeightOz,
        Quantity:    req.Quantity,
        PricingNote: export.PricingNote,
    }
    // The summary owns every derived field; copy them over rather than
    // formatting twice.
    for _, f := range sum.Fields {
        switch f.Label {
        case "Shape":
            out.Shape = f.Value
        case "Mail Class":
            out.MailClass = f.Value
        case "Type":
            out.MailType = f.Value
        case "Sortation Level":
            out.SortationLevel = f.Value
        case "Origin ZIP":
            out.OriginZIP = f.Value
        case "Destination ZIP":
            out.DestinationZIP = f.Value
        case "Cost per Piece":
            out.CostPerPiece = f.Value
        case "Total Cost":
            out.TotalCost = f.Value
        }
    }
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(out)
}

func (s *Server) handleExportEstimate(w http.ResponseWriter, r *http.Request) {
    format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
    if format != "csv" && format != "pdf" {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_format", "format must be csv or pdf")
        return
    }
    req, res, ok := s.decodeAndResolve(w, r)
    if !ok {
        return
    }
    sum := export.New(req.rateRequest(), res, req.Quantity, req.OriginZIP, req.DestinationZIP)
    switch format {
    case "csv":
        w.Header().Set("Content-Type", "text/csv")
        w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFileName+`"`)
        if err := sum.WriteCSV(w); err != nil {
            writeErrorJSON(w, http.StatusInternalServerError, "export_error", "failed to write csv")
        }
    case "pdf":
        b, err := sum.PDF()
        if err != nil {
            writeErrorJSON(w, http.StatusInternalServerError, "export_error", "failed to render pdf")
            return
        }
        w.Header().Set("Content-Type", "application/pdf")
        w.Header().Set("Content-Disposition", `attachment; filename="`+export.PDFFileName+`"`)
        w.Write(b)
    }
}

// decodeAndResolve handles the shared body-decode / validate / resolve
// path of the estimate endpoints. It writes the error response itself
// and reports ok=false when the caller should stop.
func (s *Server) decodeAndResolve(w http.ResponseWriter, r *http.Request) (EstimateRequest, rate.Result, bool) {
    var req EstimateRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
        return req, rate.Result{}, false
    }
    if req.Quantity == 0 {
        req.Quantity = 1
    }
    if req.Quantity < 0 {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "quantity must be positive")
        return req, rate.Result{}, false
    }
    // ZIPs are opaque: length is the only check, and they never price.
    if !validZIP(req.OriginZIP) || !validZIP(req.DestinationZIP) {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_zip", "ZIP codes must be 5 characters")
        return req, rate.Result{}, false
    }
    res, err := s.resolver.Resolve(req.rateRequest())
    if err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
        return req, rate.Result{}, false
    }
    if !res.Found {
        writeErrorJSON(w, http.StatusNotFound, "rate_not_found", res.Reason)
        return req, rate.Result{}, false
    }
    return req, res, true
}

func (e EstimateRequest) rateRequest() rate.Request {
    return rate.Request{
        WeightOz:       e.WeightOz,
        Shape:          e.Shape,
        MailClass:      e.MailClass,
        MailType:       e.MailType,
        SortationLevel: e.SortationLevel,
    }
}

func validZIP(zip string) bool {
    return zip == "" || len(zip) == 5
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(map[string]any{
        "error": map[string]string{
            "code":    code,
            "message": message,
        },
    })
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
        if rid == "" {
            rid = uuid.New().String()
        }
        w.Header().Set("X-Request-ID", rid)
        next.ServeHTTP(w, r)
    })
}

func parseFloat(s string) (float64, error) {
    var n json.Number = json.Number(s)
    return n.Float64()
}
