package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"jobhub-engine/internal/scrape/util"
)

// FieldFunc pulls one value out of a card. It returns "" when the field is
// absent; it never fails.
type FieldFunc func(card *goquery.Selection) string

// First returns the first non-empty result of fns, in order.
func First(fns ...FieldFunc) FieldFunc {
	return func(card *goquery.Selection) string {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if v := fn(card); v != "" {
				return v
			}
		}
		return ""
	}
}

// Text is the cleaned text of the first match of sel within the card.
func Text(sel string) FieldFunc {
	m := cascadia.MustCompile(sel)
	return func(card *goquery.Selection) string {
		return util.CleanText(card.FindMatcher(m).First().Text())
	}
}

// Attr is the attribute of the first match of sel that has it.
func Attr(sel, attr string) FieldFunc {
	m := cascadia.MustCompile(sel)
	return func(card *goquery.Selection) string {
		var out string
		card.FindMatcher(m).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				out = strings.TrimSpace(v)
				return false
			}
			return true
		})
		return out
	}
}

// SelfText is the text of the card node itself.
func SelfText() FieldFunc {
	return func(card *goquery.Selection) string { return util.CleanText(card.Text()) }
}

// SelfAttr reads an attribute of the card node itself.
func SelfAttr(attr string) FieldFunc {
	return func(card *goquery.Selection) string {
		v, _ := card.Attr(attr)
		return strings.TrimSpace(v)
	}
}

// Texts joins the text of every match of sel, for tag lists.
func Texts(sel, sep string) FieldFunc {
	m := cascadia.MustCompile(sel)
	return func(card *goquery.Selection) string {
		var parts []string
		card.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
			if t := util.CleanText(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		return strings.Join(parts, sep)
	}
}

// Labeled finds "Location: X" style text inside the card.
func Labeled() FieldFunc {
	return func(card *goquery.Selection) string {
		return util.ExtractLocationFromLabeledText(card.Text())
	}
}
