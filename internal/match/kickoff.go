package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	// Guarantees Europe/Oslo resolves even on hosts without a zoneinfo db.
	_ "time/tzdata"
)

// CivilZone is the timezone fotball.no publishes wall-clock times in.
const CivilZone = "Europe/Oslo"

var (
	osloOnce sync.Once
	osloLoc  *time.Location
)

// Oslo returns the civil timezone used for kickoff conversion.
func Oslo() *time.Location {
	osloOnce.Do(func() {
		loc, err := time.LoadLocation(CivilZone)
		if err != nil {
			// Unreachable with the embedded tzdata, but never crash a parse.
			loc = time.UTC
		}
		osloLoc = loc
	})
	return osloLoc
}

var (
	datePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
	timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseKickoff converts raw date and time text into a UTC instant at second
// precision. The date must match dd.mm.yyyy. The time may use HH:MM or HH.MM;
// when it is missing, malformed, or the 02:59 placeholder the source emits
// for fixtures without a set time, the kickoff defaults to local midnight and
// known is false.
//
// Wall-clock values are interpreted in Europe/Oslo and converted to UTC with
// full DST rules. Source variants that pass local numbers through as if they
// were UTC are not reproduced.
func ParseKickoff(dateText, timeText string, loc *time.Location) (kickoff time.Time, known bool, err error) {
	if loc == nil {
		loc = Oslo()
	}

	dm := datePattern.FindStringSubmatch(strings.TrimSpace(dateText))
	if dm == nil {
		return time.Time{}, false, fmt.Errorf("unrecognized date %q", dateText)
	}
	day, _ := strconv.Atoi(dm[1])
	month, _ := strconv.Atoi(dm[2])
	year, _ := strconv.Atoi(dm[3])

	hour, minute, known := parseTimeOfDay(timeText)

	local := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	// time.Date normalizes overflow (31.02 becomes March); reject such rows.
	if local.Day() != day || local.Month() != time.Month(month) || local.Year() != year {
		return time.Time{}, false, fmt.Errorf("impossible date %q", dateText)
	}

	return local.UTC(), known, nil
}

// parseTimeOfDay returns (hour, minute, known). 02:59 is a known placeholder
// meaning "kickoff time not set yet" and resolves to midnight.
func parseTimeOfDay(raw string) (int, int, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ".", ":")
	tm := timePattern.FindStringSubmatch(raw)
	if tm == nil {
		return 0, 0, false
	}
	hh, _ := strconv.Atoi(tm[1])
	mm, _ := strconv.Atoi(tm[2])
	if hh > 23 || mm > 59 {
		return 0, 0, false
	}
	if hh == 2 && mm == 59 {
		return 0, 0, false
	}
	return hh, mm, true
}
