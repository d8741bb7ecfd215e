package invoice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/invoicegen/pkg/render"
)

const (
	// DefaultHoursPerDay is billed for every business day.
	DefaultHoursPerDay = 8

	// DefaultHourlyRate is used when the variables carry no hourly_rate.
	DefaultHourlyRate = "21.88"

	// HeaderTitle is printed at the top of every page.
	HeaderTitle = "INVOICE"

	dateLayout = "02/01/2006"
)

// ErrNegativeDaysOff is returned when the deducted day count is below zero.
var ErrNegativeDaysOff = errors.New("days off cannot be negative")

// Generator assembles invoices. Now is the clock source; a zero Generator
// uses the wall clock, the directory counter on "invoices" and Portuguese
// captions.
type Generator struct {
	Now               func() time.Time
	Numbering         NumberingSource
	Labels            Labels
	HoursPerDay       int
	DefaultHourlyRate string
	Logger            *zap.Logger
}

// Result is a rendered invoice.
type Result struct {
	Number       string
	FileName     string
	IssueDate    time.Time
	DueDate      time.Time
	BusinessDays int
	Quantity     int
	PDF          []byte
	Blocks       []render.Block
}

// FileName returns invoice_MM_YY.pdf for the month of t.
func FileName(t time.Time) string {
	return "invoice_" + t.Format("01_06") + ".pdf"
}

// Build renders the invoice for the current month. daysOff (holidays plus
// time-off) is subtracted from the month's business days.
func (g *Generator) Build(ctx context.Context, vars Variables, daysOff int) (*Result, error) {
	if daysOff < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDaysOff, daysOff)
	}
	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	numbering := g.Numbering
	if numbering == nil {
		numbering = DirCounter{Dir: "invoices"}
	}
	labels := g.Labels
	if labels.InfoTitle == "" {
		labels = LabelsPT
	}
	hours := g.HoursPerDay
	if hours <= 0 {
		hours = DefaultHoursPerDay
	}

	today := now()
	businessDays, err := BusinessDaysInMonth(today.Year(), today.Month())
	if err != nil {
		return nil, err
	}
	businessDays -= daysOff
	if businessDays < 0 {
		logger.Warn("days off exceed business days, billing zero days",
			zap.Int("days_off", daysOff))
		businessDays = 0
	}
	quantity := businessDays * hours

	number, err := numbering.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	due := LastDayOfMonth(today)
	doc := render.New(HeaderTitle)

	doc.AddSection(labels.InfoTitle, []render.Pair{
		{Label: labels.NumberLabel, Value: number},
		{Label: labels.IssueLabel, Value: today.Format(dateLayout)},
		{Label: labels.DueLabel, Value: due.Format(dateLayout)},
	})
	if vars.HasProvider() {
		doc.AddSection(labels.ProviderTitle, toRenderPairs(vars.ProviderData))
	}
	if vars.HasClient() {
		doc.AddSection(labels.ClientTitle, toRenderPairs(vars.ClientData))
	}
	if vars.HasService() {
		rate := g.DefaultHourlyRate
		if rate == "" {
			rate = DefaultHourlyRate
		}
		if vars.HasHourlyRate() {
			rate = vars.HourlyRate.String()
		}
		rows := []render.Row{{*vars.ServiceDescription, strconv.Itoa(quantity), rate, "0.00"}}
		if err := doc.AddTable(labels.ServiceTitle, labels.TableHeader, rows); err != nil {
			return nil, fmt.Errorf("rendering service table: %w", err)
		}
	}
	if vars.HasPayment() {
		doc.AddSection(labels.PaymentTitle, toRenderPairs(vars.PaymentData))
	}

	pdf, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	logger.Debug("invoice rendered",
		zap.String("number", number),
		zap.Int("pages", doc.PageCount()),
		zap.Int("bytes", len(pdf)))

	return &Result{
		Number:       number,
		FileName:     FileName(today),
		IssueDate:    today,
		DueDate:      due,
		BusinessDays: businessDays,
		Quantity:     quantity,
		PDF:          pdf,
		Blocks:       doc.Blocks(),
	}, nil
}

func toRenderPairs(pairs Pairs) []render.Pair {
	out := make([]render.Pair, len(pairs))
	for i, p := range pairs {
		out[i] = render.Pair{Label: p.Label, Value: p.Value}
	}
	return out
}
