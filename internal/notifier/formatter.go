package notifier

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"SIPAdvisor/internal/calculator"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/scanner"
	"SIPAdvisor/internal/strategy"
)

const dateLayout = "2006-01-02"

// Formatter renders engine results as Telegram HTML messages or plain text.
// Amounts are formatted with the currency's own fraction and separators; the
// symbol can be overridden for display.
type Formatter struct {
	currency  *money.Currency
	formatter *money.Formatter
}

// NewFormatter creates a Formatter for an ISO 4217 currency code. A non-empty
// symbol replaces the currency's default grapheme.
func NewFormatter(currencyCode, symbol string) (*Formatter, error) {
	cur := money.GetCurrency(strings.ToUpper(currencyCode))
	if cur == nil {
		return nil, fmt.Errorf("%w: unknown currency %q", model.ErrInvalidConfig, currencyCode)
	}
	grapheme := cur.Grapheme
	if symbol != "" {
		grapheme = symbol
	}
	return &Formatter{
		currency:  cur,
		formatter: money.NewFormatter(cur.Fraction, cur.Decimal, cur.Thousand, grapheme, cur.Template),
	}, nil
}

// Money formats an amount in major units, e.g. 232339.08 -> "₹232,339.08".
func (f *Formatter) Money(amount float64) string {
	minor := decimal.NewFromFloat(amount).Shift(int32(f.currency.Fraction)).Round(0)
	return f.formatter.Format(minor.IntPart())
}

// Percent formats a percentage with an explicit sign and two decimals.
func Percent(pct float64) string {
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// Value formats a NAV or price.
func Value(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

func signalIcon(s model.Signal) string {
	switch s {
	case model.SignalBuy:
		return "🟢"
	case model.SignalHold:
		return "🟡"
	default:
		return "🔴"
	}
}

// FormatSignal formats one evaluated instrument.
func (f *Formatter) FormatSignal(inst model.Instrument, r *model.ReturnResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n", signalIcon(r.Signal), html.EscapeString(displayName(inst)))
	if inst.Category != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n", html.EscapeString(inst.Category))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Window: %s (%s → %s)\n", r.Window.Label(), r.StartDate.Format(dateLayout), r.EndDate.Format(dateLayout))
	fmt.Fprintf(&b, "Value: %s → %s\n", Value(r.StartValue), Value(r.EndValue))
	fmt.Fprintf(&b, "Return: %s\n", Percent(r.PctReturn))
	fmt.Fprintf(&b, "Signal: <b>%s</b>\n", r.Signal)
	return b.String()
}

// FormatReturnsTable lists the return for each window; windows that could
// not be evaluated show the reason.
func (f *Formatter) FormatReturnsTable(inst model.Instrument, results []model.WindowResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>%s</b>\n\n", html.EscapeString(displayName(inst)))
	for _, wr := range results {
		if wr.Err != nil {
			fmt.Fprintf(&b, "%-16s n/a (%s)\n", wr.Window.Label(), shortReason(wr.Err))
			continue
		}
		fmt.Fprintf(&b, "%-16s %9s  %s\n", wr.Window.Label(), Percent(wr.Result.PctReturn), wr.Result.Signal)
	}
	return b.String()
}

// FormatRange describes where the latest value sits in the window's range.
func (f *Formatter) FormatRange(window []model.PricePoint) string {
	high, low, err := calculator.WindowRange(window)
	if err != nil {
		return ""
	}
	pos, err := calculator.RangePosition(window[len(window)-1].Value, high, low)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Range: low %s / high %s (at %s of range)\n",
		Value(low), Value(high), decimal.NewFromFloat(pos*100).StringFixed(0)+"%")
}

// FormatProjection formats a SIP projection and, when given, its year-end
// schedule.
func (f *Formatter) FormatProjection(plan model.SipPlan, p model.Projection, schedule []model.YearBalance) string {
	var b strings.Builder
	b.WriteString("💰 <b>SIP projection</b>\n\n")
	fmt.Fprintf(&b, "Monthly: %s for %d years at %s%% p.a.\n",
		f.Money(plan.MonthlyAmount), plan.Years, decimal.NewFromFloat(plan.AnnualRatePct).String())
	fmt.Fprintf(&b, "Invested: %s\n", f.Money(p.Invested))
	fmt.Fprintf(&b, "Future value: <b>%s</b>\n", f.Money(p.FutureValue))
	fmt.Fprintf(&b, "Gain: %s\n", f.Money(p.Gain))
	if len(schedule) > 0 {
		b.WriteString("\nYear  Invested  Value\n")
		for _, y := range schedule {
			fmt.Fprintf(&b, "%4d  %s  %s\n", y.Year, f.Money(y.Invested), f.Money(y.FutureValue))
		}
	}
	return b.String()
}

// FormatScan formats a ranking report.
func (f *Formatter) FormatScan(rep *scanner.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 <b>Top funds</b> for %q (%s)\n\n", html.EscapeString(rep.Query), rep.Window.Label())
	if len(rep.Ranked) == 0 {
		b.WriteString("No candidate met the criteria.\n")
	}
	for i, r := range rep.Ranked {
		fmt.Fprintf(&b, "%d. %s %s  %s\n", i+1, html.EscapeString(displayName(r.Instrument)),
			Percent(r.Result.PctReturn), r.Result.Signal)
	}
	if len(rep.Skipped) > 0 {
		fmt.Fprintf(&b, "\n%d of %d candidates skipped\n", len(rep.Skipped), rep.Evaluated)
	}
	return b.String()
}

// DigestEntry is one watchlist line.
type DigestEntry struct {
	Instrument model.Instrument
	Result     *model.ReturnResult
	Err        error
	Previous   model.Signal // last recorded signal, empty when unknown
}

// FormatDigest formats the periodic watchlist report.
func (f *Formatter) FormatDigest(at time.Time, entries []DigestEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Watchlist</b> | %s\n\n", at.Format(dateLayout))
	for _, e := range entries {
		if e.Err != nil {
			fmt.Fprintf(&b, "⚠️ %s: %s\n", html.EscapeString(displayName(e.Instrument)), shortReason(e.Err))
			continue
		}
		fmt.Fprintf(&b, "%s %s: %s %s", signalIcon(e.Result.Signal),
			html.EscapeString(displayName(e.Instrument)), Percent(e.Result.PctReturn), e.Result.Signal)
		if e.Previous != "" && e.Previous != e.Result.Signal {
			fmt.Fprintf(&b, " (was %s)", e.Previous)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAdvice formats an advisor opinion next to the engine's signal.
func FormatAdvice(engine model.Signal, label string) string {
	if label == string(engine) {
		return fmt.Sprintf("🤖 Advisor agrees: <b>%s</b>\n", label)
	}
	return fmt.Sprintf("🤖 Advisor suggests <b>%s</b> (engine: %s)\n", label, engine)
}

func displayName(inst model.Instrument) string {
	if inst.Name != "" {
		return inst.Name
	}
	return inst.ID
}

func shortReason(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientData):
		return "insufficient history"
	case errors.Is(err, model.ErrDivisionByZero):
		return "zero start value"
	case errors.Is(err, model.ErrDataUnavailable):
		return "data unavailable"
	default:
		return err.Error()
	}
}

// EscapeError renders an error for an HTML message.
func EscapeError(err error) string {
	return html.EscapeString(err.Error())
}

var tagPattern = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// PlainText strips the HTML markup from a formatted message for terminal output.
func PlainText(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}

// FormatRules describes a policy's table, highest threshold first,
// e.g. "BUY &gt; 14%, HOLD &gt; 10%, else SELL".
func FormatRules(p *strategy.Policy) string {
	rules := p.Rules()
	parts := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		parts = append(parts, fmt.Sprintf("%s &gt; %s%%", r.Signal, decimal.NewFromFloat(r.Above).String()))
	}
	parts = append(parts, "else "+string(p.Fallback()))
	return strings.Join(parts, ", ")
}
