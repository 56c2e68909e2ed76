// Package aggregate filters marketing records and rolls them up into the
// dashboard's totals, channel distribution and daily series.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/models"
)

// All disables a filter dimension.
const All = "all"

// Filter narrows records by category and channel. Empty fields match everything.
type Filter struct {
	Category models.Category `json:"category"`
	Channel  models.Channel  `json:"channel"`
}

// ParseFilter builds a Filter from query values, rejecting unknown names.
func ParseFilter(category, channel string) (Filter, error) {
	var f Filter
	if category != "" && category != All {
		c := models.Category(category)
		if !c.IsValid() {
			return Filter{}, fmt.Errorf("%w: unknown category %q", apperr.ErrValidation, category)
		}
		f.Category = c
	}
	if channel != "" && channel != All {
		ch := models.Channel(channel)
		if !ch.IsValid() {
			return Filter{}, fmt.Errorf("%w: unknown channel %q", apperr.ErrValidation, channel)
		}
		f.Channel = ch
	}
	return f, nil
}

// Match reports whether r satisfies both dimensions of the filter.
func (f Filter) Match(r models.MarketingRecord) bool {
	catOK := f.Category == "" || f.Category == All || r.Category == f.Category
	chOK := f.Channel == "" || f.Channel == All || r.Channel == f.Channel
	return catOK && chOK
}

// Apply returns the records matching f, preserving input order.
func Apply(records []models.MarketingRecord, f Filter) []models.MarketingRecord {
	out := make([]models.MarketingRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Totals are the headline sums of the dashboard.
type Totals struct {
	Spend   float64 `json:"spend"`
	Revenue float64 `json:"revenue"`
	Leads   float64 `json:"leads"`
	Reach   float64 `json:"reach"`
}

// ROAS is revenue over spend, rounded to two decimals; zero without spend.
func (t Totals) ROAS() float64 {
	if t.Spend <= 0 {
		return 0
	}
	return round2(t.Revenue / t.Spend)
}

// Summarize sums spend (or budget), revenue, leads and reach. Missing or
// non-numeric values count as zero.
func Summarize(records []models.MarketingRecord) Totals {
	var t Totals
	for _, r := range records {
		t.Spend += r.Metrics.SpendOrBudget()
		t.Revenue += r.Metrics.Value(models.FieldRevenue)
		t.Leads += r.Metrics.Value(models.FieldLeads)
		t.Reach += r.Metrics.Value(models.FieldReach)
	}
	return t
}

// ChannelCount is one slice of the channel distribution.
type ChannelCount struct {
	Channel models.Channel `json:"channel"`
	Count   int            `json:"count"`
}

// Distribution counts records per channel in first-seen order.
func Distribution(records []models.MarketingRecord) []ChannelCount {
	idx := make(map[models.Channel]int)
	out := []ChannelCount{}
	for _, r := range records {
		i, ok := idx[r.Channel]
		if !ok {
			i = len(out)
			idx[r.Channel] = i
			out = append(out, ChannelCount{Channel: r.Channel})
		}
		out[i].Count++
	}
	return out
}

// Point is one day of the revenue/spend series.
type Point struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Spend   float64 `json:"spend"`
}

// TimeSeries buckets records by calendar day and returns the buckets in
// ascending date order. Records with unparseable dates sort after all dated
// ones and are bucketed under their raw date string.
func TimeSeries(records []models.MarketingRecord) []Point {
	sorted := sortByDay(records, false)
	idx := make(map[string]int)
	out := []Point{}
	for _, r := range sorted {
		key := r.Date
		if d, ok := r.Day(); ok {
			key = d.Format(models.DateLayout)
		}
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, Point{Date: key})
		}
		out[i].Revenue += r.Metrics.Value(models.FieldRevenue)
		out[i].Spend += r.Metrics.SpendOrBudget()
	}
	return out
}

// Dashboard is the full roll-up for one filter.
type Dashboard struct {
	Filter       Filter         `json:"filter"`
	Count        int            `json:"count"`
	Totals       Totals         `json:"totals"`
	ROAS         float64        `json:"roas"`
	Distribution []ChannelCount `json:"distribution"`
	Series       []Point        `json:"series"`
}

// Build filters records and computes every dashboard figure.
func Build(records []models.MarketingRecord, f Filter) Dashboard {
	filtered := Apply(records, f)
	totals := Summarize(filtered)
	return Dashboard{
		Filter:       f,
		Count:        len(filtered),
		Totals:       totals,
		ROAS:         totals.ROAS(),
		Distribution: Distribution(filtered),
		Series:       TimeSeries(filtered),
	}
}

// Search matches term case-insensitively against channel or category and
// returns the hits newest first.
func Search(records []models.MarketingRecord, term string) []models.MarketingRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	hits := make([]models.MarketingRecord, 0, len(records))
	for _, r := range records {
		if term == "" ||
			strings.Contains(strings.ToLower(string(r.Channel)), term) ||
			strings.Contains(strings.ToLower(string(r.Category)), term) {
			hits = append(hits, r)
		}
	}
	return sortByDay(hits, true)
}

// sortByDay returns a stably sorted copy; undated records always go last.
func sortByDay(records []models.MarketingRecord, desc bool) []models.MarketingRecord {
	type keyed struct {
		rec models.MarketingRecord
		day time.Time
		ok  bool
	}
	ks := make([]keyed, len(records))
	for i, r := range records {
		d, ok := r.Day()
		ks[i] = keyed{rec: r, day: d, ok: ok}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		a, b := ks[i], ks[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return a.rec.Date < b.rec.Date
		}
		if desc {
			return a.day.After(b.day)
		}
		return a.day.Before(b.day)
	})
	out := make([]models.MarketingRecord, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
