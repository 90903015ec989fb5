package filter

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// CacheKey identifies the filter including its resolved window, so keys
// roll over when a rolling window moves to the next day.
func (f Filter) CacheKey() string {
	raw := f.TeamID + "|" + f.Encode() + "|" +
		strconv.FormatInt(f.Start.Unix(), 10) + "-" + strconv.FormatInt(f.End.Unix(), 10)
	return strconv.FormatUint(xxhash.Sum64String(raw), 16)
}
