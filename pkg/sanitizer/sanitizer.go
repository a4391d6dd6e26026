package sanitizer

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "IN"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reExtension = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

	emailPipeline = Pipeline{strings.TrimSpace, strings.ToLower}
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}
	return result.String()
}

func NormalizeEmail(email string) string {
	return emailPipeline.Apply(email)
}

// NormalizePhone returns the E.164 form of phone. Numbers that cannot be
// parsed are returned trimmed but otherwise untouched.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// PhoneVariants lists the raw and normalized forms of phone so lookups match
// records stored before normalization was introduced.
func PhoneVariants(phone string) []string {
	raw := strings.TrimSpace(phone)
	return UniqueStrings([]string{raw, NormalizePhone(raw)})
}

func UniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// FileExtension returns the lower-cased extension of name, or "" when it is
// missing or looks unsafe.
func FileExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if !reExtension.MatchString(ext) {
		return ""
	}
	return ext
}
