// Package render turns decoded feed payloads into dashboard output.
//
// Every routine is a pure function of its payload and the targets it is
// handed. A routine validates the shape it needs before touching any
// target, so a failed routine leaves its region exactly as it found it.
package render

import (
	"errors"
	"html/template"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/chart"
)

// ErrMalformed reports a payload whose shape the view cannot render.
var ErrMalformed = errors.New("malformed payload")

// TextTarget is a text field such as a KPI card value.
type TextTarget interface {
	SetText(string)
}

// ChartTarget is a canvas; each Draw creates a fresh chart on it.
type ChartTarget interface {
	Draw(chart.Config)
}

// MarkupTarget is a container whose content is replaced by generated markup.
type MarkupTarget interface {
	SetHTML(template.HTML)
}

// Scalars absent from a payload are displayed with this placeholder.
const undefined = "undefined"

func num(v *float64) string {
	if v == nil {
		return undefined
	}
	return jsNumber(*v)
}

// jsNumber formats v the way browsers print numbers: positional notation,
// switching to an exponent below 1e-6 and from 1e21 up.
func jsNumber(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func integer(v *int) string {
	if v == nil {
		return undefined
	}
	return strconv.Itoa(*v)
}

func str(v *string) string {
	if v == nil {
		return undefined
	}
	return *v
}

func hourLabel(h *int) string {
	return integer(h) + "h"
}

// NumberFormat renders numbers with the grouping rules of a locale.
type NumberFormat struct {
	p *message.Printer
}

// NewNumberFormat parses a BCP 47 tag, falling back to English.
func NewNumberFormat(locale string) NumberFormat {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return NumberFormat{p: message.NewPrinter(tag)}
}

// Localized formats v with thousands separators and at most three decimals.
func (f NumberFormat) Localized(v float64) string {
	p := f.p
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}
