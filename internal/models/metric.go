package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MetricField names one input of a channel's metric form. The values are the
// keys persisted in a record's metric mapping.
type MetricField string

const (
	FieldStartDate       MetricField = "Tanggal Mulai"
	FieldEndDate         MetricField = "Tanggal Berakhir"
	FieldSpend           MetricField = "Spend"
	FieldBudget          MetricField = "Budget"
	FieldReach           MetricField = "Jangkauan"
	FieldImpressions     MetricField = "Impresi"
	FieldCPM             MetricField = "CPM"
	FieldLinkClicks      MetricField = "Klik Tautan"
	FieldLinkCTR         MetricField = "CTR Tautan"
	FieldLinkCPC         MetricField = "CPC Tautan"
	FieldClicks          MetricField = "Klik"
	FieldCPC             MetricField = "CPC"
	FieldCTR             MetricField = "CTR"
	FieldLeads           MetricField = "Leads"
	FieldClosing         MetricField = "Closing"
	FieldCPR             MetricField = "CPR"
	FieldRevenue         MetricField = "Revenue"
	FieldROAS            MetricField = "ROAS"
	FieldNoted           MetricField = "Noted"
	FieldFollowers       MetricField = "Followers"
	FieldVideo           MetricField = "Video"
	FieldReels           MetricField = "Reels"
	FieldImage           MetricField = "Gambar"
	FieldCarousel        MetricField = "Carousel"
	FieldContent         MetricField = "Konten"
	FieldViewsOrganic    MetricField = "Tayangan"
	FieldLikes           MetricField = "Suka"
	FieldComments        MetricField = "Komentar"
	FieldShares          MetricField = "Dibagikan"
	FieldFollows         MetricField = "Mengikuti"
	FieldSaves           MetricField = "Disimpan"
	FieldInteractions    MetricField = "Interaksi"
	FieldTotalEngagement MetricField = "Total Engagement"
	FieldSubscribers     MetricField = "Subscribers"
	FieldVideos          MetricField = "Videos"
	FieldShorts          MetricField = "Shorts"
	FieldViews           MetricField = "Views"
	FieldWatchTime       MetricField = "Watch Time"
	FieldEngagement      MetricField = "Engagement"
	FieldSessions        MetricField = "Sessions"
	FieldUsers           MetricField = "Users"
	FieldPageviews       MetricField = "Pageviews"
	FieldBounceRate      MetricField = "Bounce Rate"
)

// IsDate reports whether the field holds a calendar date rather than a number.
func (f MetricField) IsDate() bool {
	return strings.Contains(string(f), "Tanggal")
}

// IsText reports whether the field is a free-form note.
func (f MetricField) IsText() bool {
	return f == FieldNoted
}

// MetricValue is the numeric-or-text value of a metric. It is stored as the
// string the user typed; Number is only meaningful when IsNumber is set.
type MetricValue struct {
	Text     string
	Number   float64
	IsNumber bool
}

// ParseMetricValue classifies a raw input. Empty strings and non-finite
// numbers are text.
func ParseMetricValue(raw string) MetricValue {
	v := MetricValue{Text: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v
	}
	v.Number = f
	v.IsNumber = true
	return v
}

// Float returns the numeric value, or zero for text.
func (v MetricValue) Float() float64 {
	if v.IsNumber {
		return v.Number
	}
	return 0
}

func (v MetricValue) String() string { return v.Text }

// MarshalJSON encodes the value as the original string.
func (v MetricValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a string, a JSON number, or null.
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = MetricValue{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = ParseMetricValue(s)
		return nil
	default:
		*v = ParseMetricValue(string(data))
		return nil
	}
}

// Metrics maps metric fields to their values.
type Metrics map[MetricField]MetricValue

// Number returns the numeric value of field and whether it was present and numeric.
func (m Metrics) Number(field MetricField) (float64, bool) {
	v, ok := m[field]
	if !ok || !v.IsNumber {
		return 0, false
	}
	return v.Number, true
}

// Value returns the numeric value of field, treating missing or text as zero.
func (m Metrics) Value(field MetricField) float64 {
	n, _ := m.Number(field)
	return n
}

// SpendOrBudget returns Spend when it is numeric, else Budget, else zero.
func (m Metrics) SpendOrBudget() float64 {
	if n, ok := m.Number(FieldSpend); ok {
		return n
	}
	return m.Value(FieldBudget)
}

// MetricsFromStrings builds a Metrics map from raw form input.
func MetricsFromStrings(raw map[string]string) Metrics {
	out := make(Metrics, len(raw))
	for k, s := range raw {
		out[MetricField(k)] = ParseMetricValue(s)
	}
	return out
}
