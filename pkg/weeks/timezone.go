package weeks

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const UTC = "UTC"

// TimezoneResolver turns IANA zone names into locations. It is the only place
// in the package that looks zones up.
type TimezoneResolver struct {
	// LenientUTC accepts any casing of "UTC" ("utc", "Utc"). Every other zone
	// name is matched case-sensitively.
	LenientUTC bool
}

func (r TimezoneResolver) Resolve(name string) (*time.Location, error) {
	if name == UTC || (r.LenientUTC && strings.EqualFold(name, UTC)) {
		return time.UTC, nil
	}
	// LoadLocation treats "" as UTC and "Local" as the host zone; neither is an IANA name.
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	// Case-insensitive filesystems can satisfy "america/new_york".
	if loc.String() != name {
		return nil, fmt.Errorf("%w: %q (zone names are case-sensitive)", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// NowIn projects now into loc. UTC locations come back at zero offset.
func NowIn(now time.Time, loc *time.Location) time.Time {
	if loc == nil || loc == time.UTC {
		return now.UTC()
	}
	return now.In(loc)
}
