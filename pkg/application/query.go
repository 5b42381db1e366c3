package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// QueryParams carries a query as received from a transport: dates as
// YYYY-MM-DD strings, months as text and resource ids as a comma list.
// Empty fields mean "use the default".
type QueryParams struct {
	StartDate   string
	EndDate     string
	Months      string
	ResourceIDs string
}

// Query parses the raw parameters. Malformed values are reported as
// InvalidRangeError so every transport maps them like any other bad range.
func (p QueryParams) Query() (Query, error) {
	var q Query

	if s := strings.TrimSpace(p.StartDate); s != "" {
		d, err := capacity.ParseDate(s)
		if err != nil {
			return Query{}, &capacity.InvalidRangeError{Reason: fmt.Sprintf("start date: %v", err)}
		}
		t := d.Time()
		q.StartDate = &t
	}
	if s := strings.TrimSpace(p.EndDate); s != "" {
		d, err := capacity.ParseDate(s)
		if err != nil {
			return Query{}, &capacity.InvalidRangeError{Reason: fmt.Sprintf("end date: %v", err)}
		}
		t := d.Time()
		q.EndDate = &t
	}
	if s := strings.TrimSpace(p.Months); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Query{}, &capacity.InvalidRangeError{Reason: fmt.Sprintf("months %q is not a number", s)}
		}
		q.Months = &n
	}
	q.ResourceIDs = SplitIDs(p.ResourceIDs)
	return q, nil
}

// SplitIDs splits a comma separated id list, dropping blanks.
func SplitIDs(list string) []string {
	var ids []string
	for _, part := range strings.Split(list, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
