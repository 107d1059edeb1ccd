// Package i18n negotiates the response language and renders the few
// donor-facing messages the API returns.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the languages with translated messages. The first entry
// is the fallback.
var Supported = []language.Tag{
	language.English,
	language.Spanish,
	language.Hindi,
}

var matcher = language.NewMatcher(Supported)

// Match picks the best supported language for the given preferences, which
// may be Accept-Language headers or bare tags. Unparseable input is ignored.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Parse maps a stored locale string onto a supported tag.
func Parse(locale string) language.Tag {
	return Match(locale)
}

// Code returns the short language code used in responses and storage.
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

var thankYou = map[string]string{
	"en": "Thank you, %s! Your donation of %s to %s has been received.",
	"es": "¡Gracias, %s! Hemos recibido su donación de %s para %s.",
	"hi": "धन्यवाद, %s! %s के लिए आपका %s का दान प्राप्त हो गया है।",
}

var anonymousName = map[string]string{
	"en": "friend",
	"es": "amigo",
	"hi": "मित्र",
}

// ThankYou renders the confirmation shown after a completed donation.
func ThankYou(tag language.Tag, donorName, purpose string, amountCents int64, currencyCode string) string {
	code := Code(tag)
	tmpl, ok := thankYou[code]
	if !ok {
		code = "en"
		tmpl = thankYou[code]
	}
	name := strings.TrimSpace(donorName)
	if name == "" || strings.EqualFold(name, "anonymous") {
		name = anonymousName[code]
	} else {
		name = cases.Title(tag).String(name)
	}
	amount := FormatAmount(tag, amountCents, currencyCode)
	if code == "hi" {
		return fmt.Sprintf(tmpl, name, purpose, amount)
	}
	return fmt.Sprintf(tmpl, name, amount, purpose)
}

// FormatAmount renders cents in the currency using the language's number
// conventions, falling back to a plain "USD 10.00" form for unknown codes.
func FormatAmount(tag language.Tag, cents int64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return fmt.Sprintf("%s %d.%02d", strings.ToUpper(currencyCode), cents/100, cents%100)
	}
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(float64(cents) / 100)))
}
