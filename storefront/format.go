package storefront

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultLocale = "es-PY"

var printers sync.Map // locale -> *message.Printer

func printerFor(locale string) *message.Printer {
	if p, ok := printers.Load(locale); ok {
		return p.(*message.Printer)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(defaultLocale)
	}
	p, _ := printers.LoadOrStore(locale, message.NewPrinter(tag))
	return p.(*message.Printer)
}

// FormatAmount groups digits the way locale does, e.g. 4500000 -> "4.500.000" for es-PY.
func FormatAmount(amount int64, locale string) string {
	return printerFor(locale).Sprintf("%d", amount)
}

// FormatPrice appends the currency code to the grouped amount.
func FormatPrice(amount int64, locale, currency string) string {
	return FormatAmount(amount, locale) + " " + currency
}

var (
	phoneFormatting = regexp.MustCompile(`[\s\-()]`)
	whatsAppNumber  = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// ValidWhatsAppNumber accepts international numbers of 10 to 15 digits, ignoring spaces, dashes and parentheses.
func ValidWhatsAppNumber(number string) bool {
	if number == "" {
		return false
	}
	return whatsAppNumber.MatchString(phoneFormatting.ReplaceAllString(number, ""))
}

// WhatsAppURL builds a wa.me link with an optional prefilled message.
func WhatsAppURL(number, text string) string {
	digits := strings.ReplaceAll(phoneFormatting.ReplaceAllString(number, ""), "+", "")
	link := "https://wa.me/" + digits
	if text != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link
}
