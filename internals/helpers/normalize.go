package helper

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// NormalizeEmail: trim + lower-case.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone: hanya digit, awalan 62 → 0. "+62 812-3456" → "08123456".
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if strings.HasPrefix(d, "62") {
		d = "0" + d[2:]
	}
	return d
}

// LooksLikeEmail: pembeda identifier login email vs no HP.
func LooksLikeEmail(s string) bool {
	return strings.Contains(s, "@")
}

// AcademicYearFor: tahun akademik untuk pendaftaran pada waktu t.
// Mulai September pendaftar masuk tahun akademik berikutnya.
func AcademicYearFor(t time.Time) string {
	y := t.Year()
	if t.Month() >= time.September {
		return fmt.Sprintf("%d/%d", y+1, y+2)
	}
	return fmt.Sprintf("%d/%d", y, y+1)
}

var jakarta = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*3600)
	}
	return loc
}()

// Jakarta: zona waktu tampilan.
func Jakarta() *time.Location { return jakarta }

// ParseDate: "2006-01-02" → *time.Time; kosong → nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
