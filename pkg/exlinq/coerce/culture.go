package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Culture holds the locale conventions used to parse numbers and dates
// from text.
type Culture struct {
	// Tag is the language tag the culture was built for.
	Tag language.Tag
	// Decimal is the decimal separator.
	Decimal string
	// Groups are the accepted digit group separators.
	Groups []string
	// DateLayouts are tried in order when parsing date/time text.
	DateLayouts []string
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// Invariant is the culture-neutral convention: '.' decimal separator,
// ',' grouping and ISO-like date layouts.
var Invariant = Culture{
	Tag:         language.Und,
	Decimal:     ".",
	Groups:      []string{","},
	DateLayouts: append(append([]string{}, isoLayouts...), "01/02/2006 15:04:05", "01/02/2006"),
}

var (
	dayFirstSlash = []string{"2/1/2006 15:04:05", "2/1/2006 15:04", "2/1/2006"}
	dayFirstDot   = []string{"2.1.2006 15:04:05", "2.1.2006 15:04", "2.1.2006"}
	yearFirst     = []string{"2006/1/2 15:04:05", "2006/1/2 15:04", "2006/1/2"}
)

func culture(tag language.Tag, decimal string, groups []string, layouts ...[]string) Culture {
	c := Culture{Tag: tag, Decimal: decimal, Groups: groups}
	for _, l := range layouts {
		c.DateLayouts = append(c.DateLayouts, l...)
	}
	c.DateLayouts = append(c.DateLayouts, isoLayouts...)
	return c
}

// Order matters: the first entry is the matcher's fallback.
var cultures = []Culture{
	culture(language.AmericanEnglish, ".", []string{","}, []string{
		"1/2/2006 3:04:05 PM", "1/2/2006 3:04 PM", "1/2/2006 15:04:05", "1/2/2006 15:04", "1/2/2006",
		"January 2, 2006", "Jan 2, 2006",
	}),
	culture(language.BritishEnglish, ".", []string{","}, dayFirstSlash, []string{"2 January 2006", "2 Jan 2006"}),
	culture(language.German, ",", []string{"."}, dayFirstDot),
	culture(language.French, ",", []string{" ", "\u00a0", "\u202f"}, dayFirstSlash),
	culture(language.Spanish, ",", []string{"."}, dayFirstSlash),
	culture(language.Italian, ",", []string{"."}, dayFirstSlash),
	culture(language.Portuguese, ",", []string{"."}, dayFirstSlash),
	culture(language.Russian, ",", []string{" ", "\u00a0"}, dayFirstDot),
	culture(language.Japanese, ".", []string{","}, yearFirst),
	culture(language.Chinese, ".", []string{","}, yearFirst),
}

var matcher = language.NewMatcher(func() []language.Tag {
	tags := make([]language.Tag, len(cultures))
	for i, c := range cultures {
		tags[i] = c.Tag
	}
	return tags
}())

// LookupCulture resolves a BCP 47 name such as "de-DE" to the closest
// supported culture. Blank names and "invariant" yield Invariant, as do
// languages without a reasonable match.
func LookupCulture(name string) (Culture, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "invariant") {
		return Invariant, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return Culture{}, fmt.Errorf("unknown culture %q: %w", name, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Invariant, nil
	}
	return cultures[idx], nil
}

func (c Culture) normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	for _, g := range c.Groups {
		if g != c.Decimal {
			s = strings.ReplaceAll(s, g, "")
		}
	}
	if c.Decimal != "" && c.Decimal != "." {
		s = strings.Replace(s, c.Decimal, ".", 1)
	}
	return s
}

// numberText rewrites number text in c's format, e.g. "1.234,5" (de), to
// the invariant form "1234.5". It reports false when s is not a number in
// c, including text with misplaced group separators such as "31.12.2023".
func (c Culture) numberText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	whole := s
	if c.Decimal != "" {
		if i := strings.Index(s, c.Decimal); i >= 0 {
			whole = s[:i]
		}
	}
	for _, g := range c.Groups {
		if g != c.Decimal {
			whole = strings.ReplaceAll(whole, g, "\x00")
		}
	}
	for _, group := range strings.Split(whole, "\x00")[1:] {
		if len(group) != 3 {
			return "", false
		}
	}
	n := c.normalizeNumber(s)
	if _, err := strconv.ParseFloat(n, 64); err != nil {
		return "", false
	}
	return n, true
}

// ParseFloat parses locale-formatted text such as "1.234,5" (de).
func (c Culture) ParseFloat(s string, bitSize int) (float64, error) {
	return strconv.ParseFloat(c.normalizeNumber(s), bitSize)
}

// ParseInt parses plain integer text. Group separators are rejected so
// that callers fall back to ParseFloat.
func (c Culture) ParseInt(s string, bitSize int) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, bitSize)
}

// ParseUint parses plain unsigned integer text.
func (c Culture) ParseUint(s string, bitSize int) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 10, bitSize)
}

// ParseTime parses date/time text using the culture's layouts, in loc.
func (c Culture) ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	layouts := c.DateLayouts
	if len(layouts) == 0 {
		layouts = Invariant.DateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date/time", s)
}

func (c Culture) String() string {
	if c.Tag == language.Und {
		return "invariant"
	}
	return c.Tag.String()
}
