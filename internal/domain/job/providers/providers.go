// Package providers holds helpers shared by the vendor connectors.
// Classification stays deliberately shallow: each connector passes its
// own vocabulary.
package providers

import (
	"strings"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
)

// StripJobsSuffix turns "IT Jobs" into "IT", the form vendors match on
func StripJobsSuffix(category string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(category), " Jobs"))
}

// FirstKeyword returns the first category as a search keyword, or ""
func FirstKeyword(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	return StripJobsSuffix(categories[0])
}

// Classify returns the first category whose bare name appears in any of
// texts, or def when none does.
func Classify(categories []string, def string, texts ...string) string {
	lowered := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			lowered = append(lowered, strings.ToLower(t))
		}
	}
	for _, c := range categories {
		name := strings.ToLower(StripJobsSuffix(c))
		if name == "" {
			continue
		}
		for _, t := range lowered {
			if strings.Contains(t, name) {
				return c
			}
		}
	}
	return def
}

// Area trims the parts and drops blanks
func Area(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitArea splits a comma separated location into area parts
func SplitArea(location string) []string {
	return Area(strings.Split(location, ",")...)
}

// JoinArea renders area parts as an address, or the N/A sentinel
func JoinArea(area []string) string {
	if len(area) == 0 {
		return domain.NotAvailable
	}
	return strings.Join(area, ", ")
}

// CopyFloat detaches an optional number from the vendor payload
func CopyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	return domain.Float(*f)
}

// ParseTime tries each layout in turn; the result is UTC
func ParseTime(value string, layouts ...string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}

// Contains reports whether values holds v
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
