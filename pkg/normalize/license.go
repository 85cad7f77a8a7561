package normalize

import "strings"

// LicenseCharset selects which characters survive license-code normalization.
type LicenseCharset string

const (
	// LicenseAlphanumeric keeps [0-9A-Za-z].
	LicenseAlphanumeric LicenseCharset = "alphanumeric"
	// LicenseLetters keeps [A-Za-z] only.
	LicenseLetters LicenseCharset = "letters"
)

// StrictLicenseMaxLength is the cap used by the letters-only variant of the
// form (driver license categories never exceed five letters).
const StrictLicenseMaxLength = 5

// LicenseRules configures LicenseCode. The zero value keeps alphanumerics with
// no length cap.
type LicenseRules struct {
	Charset LicenseCharset `yaml:"charset" json:"charset"`
	// MaxLength caps the result; zero or negative means unbounded.
	MaxLength int `yaml:"max_length" json:"max_length"`
}

// DefaultLicenseRules mirrors the final form: alphanumerics, unbounded.
func DefaultLicenseRules() LicenseRules {
	return LicenseRules{Charset: LicenseAlphanumeric}
}

// StrictLicenseRules mirrors the earlier variant: letters only, five max.
func StrictLicenseRules() LicenseRules {
	return LicenseRules{Charset: LicenseLetters, MaxLength: StrictLicenseMaxLength}
}

// ParseLicenseCharset maps a configuration string to a charset, falling back
// to alphanumeric for unknown values.
func ParseLicenseCharset(raw string) LicenseCharset {
	switch LicenseCharset(strings.ToLower(strings.TrimSpace(raw))) {
	case LicenseLetters:
		return LicenseLetters
	default:
		return LicenseAlphanumeric
	}
}

// LicenseCode filters text to the configured charset, upper-cases it and caps
// its length.
func LicenseCode(text string, rules LicenseRules) string {
	lettersOnly := rules.Charset == LicenseLetters

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= '0' && c <= '9' && !lettersOnly:
			b.WriteByte(c)
		default:
			continue
		}
		if rules.MaxLength > 0 && b.Len() >= rules.MaxLength {
			break
		}
	}
	return b.String()
}
