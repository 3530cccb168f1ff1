package sheet

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dayMonthYear matches localized "d/m/y" or "d-m-y" date prefixes.
var dayMonthYear = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)

// genericLayouts are tried, in order, for date strings that are not in
// the localized day-first form.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// maxExcelSerial is the Excel day serial for 9999-12-31. Larger numbers
// (contract ids, phone numbers) are not date codes.
const maxExcelSerial = 2958465

// SameCivilDay reports whether a raw workbook cell value falls on the
// same calendar day as ref, observed in zone.
//
// The raw value may be an Excel day serial ("46023" or "46023.5"), a
// localized day-first date string ("24/02/2026", two-digit years mean
// 2000+yy), or a generic date string. Day serials decode to civil
// date/time already, so their parts are compared directly; parsed
// instants are projected into zone first. Unparseable values are simply
// not same-day: absence of a closure date excludes the row, it is not
// an error.
func SameCivilDay(raw string, ref time.Time, zone *time.Location) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}

	refY, refM, refD := ref.In(zone).Date()

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 || serial > maxExcelSerial {
			return false
		}
		decoded, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return false
		}
		y, m, d := decoded.Date()
		return y == refY && m == refM && d == refD
	}

	if m := dayMonthYear.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		return year == refY && time.Month(month) == refM && day == refD
	}

	for _, layout := range genericLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return SameInstantDay(parsed, ref, zone)
		}
	}

	return false
}

// SameInstantDay reports whether two instants share a calendar day when
// both are observed in zone.
func SameInstantDay(t, ref time.Time, zone *time.Location) bool {
	y1, m1, d1 := t.In(zone).Date()
	y2, m2, d2 := ref.In(zone).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// looksLikeDate reports whether the value has a day-first date shape,
// without requiring it to be same-day. Used as the second-pass predicate
// when inferring the closure-date column.
func looksLikeDate(raw string) bool {
	return dayMonthYear.MatchString(strings.TrimSpace(raw))
}
