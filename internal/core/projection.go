package core

import "time"

// Filter selects which records participate in a projection.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterWeek  Filter = "week"
	FilterMonth Filter = "month"
)

// ParseFilter validates a filter selector coming from a caller.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterWeek, FilterMonth:
		return Filter(s), nil
	}
	return "", ErrInvalidFilter
}

type (
	// CategoryTotal is the exact sum of amounts for one category label.
	CategoryTotal struct {
		Category string
		Total    Money
	}

	// Projection is the derived view over a record set for one filter and
	// reference instant: the matching records in their given order, their
	// grand total, and per-category totals in order of first appearance.
	Projection struct {
		Records    []Record
		Total      Money
		ByCategory []CategoryTotal
	}
)

// Project computes the projection of records under filter, evaluated against
// the reference instant now. It is pure: no I/O, no clock reads, identical
// output for identical inputs. Categories with no matching records never
// appear in ByCategory. The only error is a malformed filter.
func Project(records []Record, filter Filter, now time.Time) (Projection, error) {
	if _, err := ParseFilter(string(filter)); err != nil {
		return Projection{}, err
	}

	p := Projection{Records: []Record{}, ByCategory: []CategoryTotal{}}
	index := make(map[string]int)

	for _, r := range records {
		if !matches(filter, r.Date, now) {
			continue
		}
		p.Records = append(p.Records, r)
		p.Total = p.Total.Add(r.Amount)

		if i, ok := index[r.Category]; ok {
			p.ByCategory[i].Total = p.ByCategory[i].Total.Add(r.Amount)
		} else {
			index[r.Category] = len(p.ByCategory)
			p.ByCategory = append(p.ByCategory, CategoryTotal{Category: r.Category, Total: r.Amount})
		}
	}

	return p, nil
}

func matches(filter Filter, d Date, now time.Time) bool {
	switch filter {
	case FilterWeek:
		return d.Year() == now.Year() && weekIndex(d.Time) == weekIndex(now)
	case FilterMonth:
		return d.Year() == now.Year() && d.Month() == int(now.Month())
	default: // FilterAll
		return true
	}
}

// weekIndex buckets a date into 7-day windows counted from January 1 of its
// year, shifted by January 1's weekday. This is deliberately locale-naive
// and not ISO-8601: no Thursday anchoring, no cross-year week 52/53 handling.
func weekIndex(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return (t.YearDay() - 1 + int(jan1.Weekday())) / 7
}
