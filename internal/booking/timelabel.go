package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimeLabel converts a display label such as "01:30 PM" into a 24-hour
// clock pair. Both availability lookups and submissions go through here so
// the two sides never disagree on what a label means.
func ParseTimeLabel(label string) (hour, minute int, err error) {
	parts := strings.Fields(strings.TrimSpace(label))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time label %q", label)
	}

	meridiem := strings.ToUpper(parts[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, 0, fmt.Errorf("invalid meridiem in time label %q", label)
	}

	clock := strings.Split(parts[0], ":")
	if len(clock) != 2 {
		return 0, 0, fmt.Errorf("invalid clock in time label %q", label)
	}

	hour, err = strconv.Atoi(clock[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("invalid hour in time label %q", label)
	}

	minute, err = strconv.Atoi(clock[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in time label %q", label)
	}

	if meridiem == "AM" {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}

	return hour, minute, nil
}

// FormatTimeLabel renders a 24-hour clock pair back into the display form
// used by ParseTimeLabel, e.g. (13, 30) -> "01:30 PM".
func FormatTimeLabel(hour, minute int) string {
	meridiem := "AM"
	display := hour

	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		display = hour - 12
		meridiem = "PM"
	}

	return fmt.Sprintf("%02d:%02d %s", display, minute, meridiem)
}
