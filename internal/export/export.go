package export

import (
    "bytes"
    "encoding/csv"
    "io"
    "strconv"
    "strings"

    "github.com/go-pdf/fpdf"
    "github.com/shopspring/decimal"

    "postagecalc/internal/rate"
)

// PricingNote is attached to every estimate: ZIP codes are accepted but
// never priced.
const PricingNote = "Flat-rate logic is used (no zones)."

// Default download filenames.
const (
    CSVFileName = "postage_estimate.csv"
    PDFFileName = "postage_estimate.pdf"
)

// Field is one labeled line of an estimate summary.
type Field struct {
    Label string
    Value string
}

// Summary is the flat, ordered field list an estimate exports as.
// The engine has no opinion on the output format; CSV and PDF below
// are just two renderings of the same fields.
type Summary struct {
    Fields []Field
}

// New builds a summary from a found resolution. Empty optionals render
// as "N/A"; currency fields are formatted to cents with half-up
// rounding, the raw per-piece rate keeps its loaded precision inside
// the engine only.
func New(req rate.Request, res rate.Result, quantity int, originZIP, destZIP string) Summary {
    if quantity < 1 {
        quantity = 1
    }
    sortation := strings.TrimSpace(req.SortationLevel)
    if res.EffectiveShape != rate.ShapeLetter {
        sortation = ""
    }
    mailType := rate.NormalizeMailType(req.MailType)
    if mailType == "" {
        // same default the resolver applies
        mailType = rate.TypeAutomation
    }
    total := res.Rate.Mul(decimal.NewFromInt(int64(quantity)))
    return Summary{Fields: []Field{
        {"Shape", string(res.EffectiveShape)},
        {"Mail Class", rate.NormalizeMailClass(req.MailClass)},
        {"Type", mailType},
        {"Weight (oz)", strconv.FormatFloat(req.WeightOz, 'f', -1, 64)},
        {"Quantity", strconv.Itoa(quantity)},
        {"Sortation Level", orNA(sortation)},
        {"Origin ZIP", orNA(originZIP)},
        {"Destination ZIP", orNA(destZIP)},
        {"Cost per Piece", Money(res.Rate)},
        {"Total Cost", Money(total)},
    }}
}

// Money formats a currency amount as $x.xx, rounding half-up.
func Money(d decimal.Decimal) string {
    return "$" + d.StringFixed(2)
}

// WriteCSV renders the summary as a header row plus one record.
func (s Summary) WriteCSV(w io.Writer) error {
    labels := make([]string, len(s.Fields))
    values := make([]string, len(s.Fields))
    for i, f := range s.Fields {
        labels[i] = f.Label
        values[i] = f.Value
    }
    cw := csv.NewWriter(w)
    if err := cw.Write(labels); err != nil {
        return err
    }
    if err := cw.Write(values); err != nil {
        return err
    }
    cw.Flush()
    return cw.Error()
}

// WriteCSVBytes is WriteCSV into a fresh buffer, for callers that want
// a file payload rather than a stream.
func (s Summary) WriteCSVBytes() ([]byte, error) {
    var buf bytes.Buffer
    if err := s.WriteCSV(&buf); err != nil {
        return nil, err
    }
    return buf.Bytes(), nil
}

// PDF renders the summary as a single page, one "label: value" line
// per field.
func (s Summary) PDF() ([]byte, error) {
    pdf := fpdf.New("P", "mm", "A4", "")
    pdf.AddPage()
    pdf.SetFont("Arial", "", 12)
    for _, f := range s.Fields {
        pdf.CellFormat(190, 10, f.Label+": "+f.Value, "", 1, "", false, 0, "")
    }
    var buf bytes.Buffer
    if err := pdf.Output(&buf); err != nil {
        return nil, err
    }
    return buf.Bytes(), nil
}

func orNA(s string) string {
    if strings.TrimSpace(s) == "" {
        return "N/A"
    }
    return s
}
