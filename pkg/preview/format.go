package preview

import (
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-curriculo/pkg/normalize"
)

// Present is the label that replaces the end month of an ongoing activity.
const Present = "Atual"

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// FormatMonth converts "YYYY-MM" to "MM/YYYY". Values of any other shape are
// returned unchanged.
func FormatMonth(month string) string {
	year, mm, ok := strings.Cut(month, "-")
	if !ok || len(year) != 4 || len(mm) != 2 {
		return month
	}
	return mm + "/" + year
}

// FormatPeriod renders a start/end pair. When ongoing is true the end value is
// ignored entirely and the period ends with "Atual".
func FormatPeriod(start, end string, ongoing bool) string {
	if ongoing {
		end = ""
	}
	if start == "" && end == "" {
		return ""
	}
	if ongoing {
		return FormatMonth(start) + " - " + Present
	}
	return FormatMonth(start) + " - " + FormatMonth(end)
}

// ComputeAge returns the completed years between birthDate (YYYY-MM-DD) and
// now. The second result is false when birthDate is empty or unparsable.
func ComputeAge(birthDate string, now time.Time) (int, bool) {
	birthDate = strings.TrimSpace(birthDate)
	if birthDate == "" {
		return 0, false
	}
	birth, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return 0, false
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// PhoneDisplay masks stored phone digits for display. Empty input stays empty.
func PhoneDisplay(digits string) string {
	if normalize.StripNonDigits(digits) == "" {
		return ""
	}
	return normalize.Phone(digits)
}

// DefaultFilenameStem names the export of an unnamed record.
const DefaultFilenameStem = "usuario"

// filenameRun matches whitespace together with path separators and the
// characters that are not portable in file names.
var filenameRun = regexp.MustCompile(`[\s/\\:*?"<>|\x00-\x1f]+`)

// Filename returns the export filename for a full name:
// "curriculo_<name with whitespace runs as underscores>.pdf". Path separators
// and other unsafe characters are replaced too, so the result is always a
// base name.
func Filename(name string) string {
	if name == "" {
		name = DefaultFilenameStem
	}
	return "curriculo_" + filenameRun.ReplaceAllString(name, "_") + ".pdf"
}

// Clock supplies the current time to the preview builder.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now implements Clock.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// ParseMonth reports whether value is a well-formed "YYYY-MM" month.
func ParseMonth(value string) (time.Time, bool) {
	t, err := time.Parse(monthLayout, value)
	return t, err == nil
}
