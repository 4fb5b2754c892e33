package geo

import (
	"fmt"
	"math"
)

// UTCOffset approximates a UTC offset from longitude: round(lon / 15),
// rounding halves away from zero. No clamping is applied; valid longitudes
// stay within [-12, +12].
func UTCOffset(lon float64) int {
	return int(math.Round(lon / 15))
}

// TimezoneLabel formats an offset as "UTC+2", "UTC-3" or "UTC+0".
func TimezoneLabel(offset int) string {
	if offset < 0 {
		return fmt.Sprintf("UTC%d", offset)
	}
	return fmt.Sprintf("UTC+%d", offset)
}
