package pricing

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale matches the shop's audience.
const DefaultLocale = "es"

// Formatter renders amounts in euros for one locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a formatter for locale (DefaultLocale if empty).
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag)}, nil
}

// Price renders v with two decimals and a euro sign, e.g. "15,00€".
func (f *Formatter) Price(v float64) string {
	return f.printer.Sprintf("%.2f€", v)
}
