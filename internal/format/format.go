package format

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "en-GB"
	DefaultCurrency = "GBP"
)

// Formatter renders money, counts and percentages for one locale.
type Formatter struct {
	tag      language.Tag
	printer  *message.Printer
	currency string
}

// New returns a Formatter for locale, falling back to en-GB when the
// locale tag cannot be parsed.
func New(locale, currencyCode string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		log.Printf("Warning: invalid locale %q: %v. Using %s.", locale, err, DefaultLocale)
		tag = language.BritishEnglish
	}
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	return &Formatter{
		tag:      tag,
		printer:  message.NewPrinter(tag),
		currency: strings.ToUpper(currencyCode),
	}
}

// Locale returns the BCP 47 tag in use.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// DefaultCurrency returns the currency used when none is given.
func (f *Formatter) DefaultCurrency() string {
	return f.currency
}

// Currency formats amount with two decimals in the given ISO 4217
// currency. An empty code uses the formatter's default currency. An
// unknown code falls back to a plain pound amount.
func (f *Formatter) Currency(amount float64, code string) string {
	if code == "" {
		code = f.currency
	}
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return fallbackCurrency(amount)
	}

	sym := f.printer.Sprint(currency.NarrowSymbol(unit))
	if sym == unit.String() {
		// No CLDR symbol, so the ISO code stands apart from the digits.
		sym += " "
	}
	digits := f.printer.Sprint(number.Decimal(math.Abs(amount),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if amount < 0 {
		return "-" + sym + digits
	}
	return sym + digits
}

// Number formats v with grouping separators and at most two decimals.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Percentage renders v as a percentage. Positive values get a leading
// plus sign when showSign is set; negative values keep their own sign.
func (f *Formatter) Percentage(v float64, showSign bool) string {
	if v == 0 {
		return "0%"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64) + "%"
	if showSign && v > 0 {
		return "+" + s
	}
	return s
}

func fallbackCurrency(amount float64) string {
	return fmt.Sprintf("£%.2f", amount)
}

var std = New(DefaultLocale, DefaultCurrency)

// Currency formats amount using the en-GB formatter.
func Currency(amount float64, code string) string { return std.Currency(amount, code) }

// Number formats v using the en-GB formatter.
func Number(v float64) string { return std.Number(v) }

// Percentage formats v using the en-GB formatter.
func Percentage(v float64, showSign bool) string { return std.Percentage(v, showSign) }
