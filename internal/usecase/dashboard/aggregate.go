package dashboard

import (
	"math"
	"sort"

	"ncr-quality-backend/internal/domain/ncr"
)

// Counts is one row of the status table.
type Counts struct {
	Total         int `json:"total"`
	Close         int `json:"close"`
	Open          int `json:"open"`
	Delay         int `json:"delay"`
	ProgressRate  int `json:"progressRate"`
	CustomerCount int `json:"customerCount"`
	InternalCount int `json:"internalCount"`
}

type CustomerCounts struct {
	Customer string `json:"customer"`
	Counts
}

type Summary struct {
	Customers []CustomerCounts `json:"customers"`
	// Monthly[m-1] counts entries with month m, whatever the year.
	Monthly [12]int `json:"monthly"`
	Totals  Counts  `json:"totals"`
}

// Aggregate rolls the list up per customer and per month. Entries whose source
// equals internalSource count as internally found, the rest as customer found.
func Aggregate(entries []ncr.Entry, internalSource string) Summary {
	byCustomer := map[string]*Counts{}
	var s Summary

	for _, e := range entries {
		c, ok := byCustomer[e.Customer]
		if !ok {
			c = &Counts{}
			byCustomer[e.Customer] = c
		}
		c.Total++
		switch e.Status {
		case ncr.StatusClosed:
			c.Close++
		case ncr.StatusOpen:
			c.Open++
		case ncr.StatusDelay:
			c.Delay++
		}
		if e.Source == internalSource {
			c.InternalCount++
		} else {
			c.CustomerCount++
		}

		if e.Month >= 1 && e.Month <= 12 {
			s.Monthly[e.Month-1]++
		}
	}

	names := make([]string, 0, len(byCustomer))
	for name := range byCustomer {
		names = append(names, name)
	}
	sort.Strings(names)

	s.Customers = make([]CustomerCounts, 0, len(names))
	for _, name := range names {
		c := byCustomer[name]
		c.ProgressRate = ProgressRate(c.Close, c.Total)
		s.Customers = append(s.Customers, CustomerCounts{Customer: name, Counts: *c})

		s.Totals.Total += c.Total
		s.Totals.Close += c.Close
		s.Totals.Open += c.Open
		s.Totals.Delay += c.Delay
		s.Totals.CustomerCount += c.CustomerCount
		s.Totals.InternalCount += c.InternalCount
	}
	s.Totals.ProgressRate = ProgressRate(s.Totals.Close, s.Totals.Total)
	return s
}

// ProgressRate is round(100*closed/total), or 0 for an empty group.
func ProgressRate(closed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(closed) / float64(total)))
}
