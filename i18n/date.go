package i18n

import (
	"strconv"
	"strings"
	"time"
)

var arabicMonths = [12]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// FormatDate renders the long date form, e.g. "١٤ أكتوبر ٢٠٢٦" or "October 14, 2026"
func FormatDate(l Locale, t time.Time) string {
	if l != Arabic {
		return t.Format("January 2, 2006")
	}
	return Digits(l, strconv.Itoa(t.Day())) + " " + arabicMonths[t.Month()-1] + " " + Digits(l, strconv.Itoa(t.Year()))
}

// Digits converts western digits to Arabic-Indic ones for the Arabic locale
func Digits(l Locale, s string) string {
	if l != Arabic {
		return s
	}
	return arabicDigits.Replace(s)
}

// MonthName is the full month name in l
func MonthName(l Locale, m time.Month) string {
	if l != Arabic {
		return m.String()
	}
	return arabicMonths[m-1]
}
