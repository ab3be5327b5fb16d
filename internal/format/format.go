package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FmtCurrency formats a whole-unit amount with locale digit grouping.
// Example: FmtCurrency(110000, "VND", "vi") => "110.000 ₫"
func FmtCurrency(amount int64, currency, lang string) string {
	p := printer(lang)
	switch strings.ToUpper(currency) {
	case "VND":
		if isVietnamese(lang) {
			return p.Sprintf("%d ₫", amount)
		}
		return p.Sprintf("₫%d", amount)
	case "USD":
		// assume cents
		neg := amount < 0
		if neg {
			amount = -amount
		}
		s := p.Sprintf("$%d.%02d", amount/100, amount%100)
		if neg {
			return "-" + s
		}
		return s
	default:
		return strings.ToUpper(currency) + " " + p.Sprintf("%d", amount)
	}
}

// FmtPriceShort renders VND prices the way the shop writes them: 110000 => "110k".
// Amounts that are not whole thousands fall back to grouped digits.
func FmtPriceShort(amount int64, lang string) string {
	if amount != 0 && amount%1000 == 0 {
		return strconv.FormatInt(amount/1000, 10) + "k"
	}
	return printer(lang).Sprintf("%d", amount)
}

// FmtDate formats time in a locale-friendly short form.
func FmtDate(t time.Time, lang string) string {
	if isVietnamese(lang) {
		return t.Format("02/01/2006")
	}
	return t.Format("Jan 2, 2006")
}

func printer(lang string) *message.Printer {
	if isVietnamese(lang) {
		return message.NewPrinter(language.Vietnamese)
	}
	return message.NewPrinter(language.English)
}

func isVietnamese(lang string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), "vi") || strings.TrimSpace(lang) == ""
}
