package extract

import (
	"regexp"
	"time"
)

// dateFormats are tried in order against each date-like token in a body.
var dateFormats = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{
		re:      regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
		layouts: []string{"2006-01-02"},
	},
	{
		re:      regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`),
		layouts: []string{"02/01/2006", "2/1/2006", "02/01/06", "2/1/06"},
	},
	{
		re:      regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{2,4})\b`),
		layouts: []string{"02-01-2006", "2-1-2006", "02-01-06"},
	},
	{
		re:      regexp.MustCompile(`(?i)\b(\d{1,2}[- ](?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[- ]\d{2,4})\b`),
		layouts: []string{"02-Jan-2006", "2-Jan-2006", "02-Jan-06", "02 Jan 2006", "2 Jan 2006", "02 January 2006", "2 January 2006"},
	},
}

// ParseDate returns the first explicit day-first date in body, in loc.
func ParseDate(body string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, f := range dateFormats {
		for _, sub := range f.re.FindAllStringSubmatch(body, -1) {
			for _, layout := range f.layouts {
				if d, err := time.ParseInLocation(layout, sub[1], loc); err == nil {
					return d, true
				}
			}
		}
	}
	return time.Time{}, false
}
