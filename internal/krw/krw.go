// Package krw formats won amounts for display text.
package krw

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// Group renders n with thousands separators, e.g. 1,200,000.
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

// Won renders n followed by the won suffix, e.g. 1,200,000원.
func Won(n int64) string {
	return Group(n) + "원"
}

// Percent renders a ratio given in percent with one decimal, e.g. 3.1%.
func Percent(p float64) string {
	return printer.Sprintf("%.1f%%", p)
}
