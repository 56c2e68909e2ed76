package models

import (
	"encoding/json"
	"testing"
)

func TestParseMetricValue(t *testing.T) {
	cases := []struct {
		in    string
		num   float64
		isNum bool
	}{
		{"100000", 100000, true},
		{" 12.5 ", 12.5, true},
		{"1e3", 1000, true},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1.000.000", 0, false},
	}
	for _, c := range cases {
		v := ParseMetricValue(c.in)
		if v.IsNumber != c.isNum || v.Float() != c.num {
			t.Errorf("ParseMetricValue(%q) = %+v, want number=%v %v", c.in, v, c.isNum, c.num)
		}
		if v.Text != c.in {
			t.Errorf("text = %q, want %q", v.Text, c.in)
		}
	}
}

func TestMetricsJSONKeepsStrings(t *testing.T) {
	m := Metrics{FieldSpend: ParseMetricValue("1500"), FieldNoted: ParseMetricValue("promo")}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted form is not a string map: %v", err)
	}
	if raw["Spend"] != "1500" || raw["Noted"] != "promo" {
		t.Errorf("raw = %v", raw)
	}
}

func TestMetricValueDecodesNumbers(t *testing.T) {
	var m Metrics
	if err := json.Unmarshal([]byte(`{"Revenue": 250000, "Leads": "7", "Noted": null}`), &m); err != nil {
		t.Fatal(err)
	}
	if n, ok := m.Number(FieldRevenue); !ok || n != 250000 {
		t.Errorf("revenue = %v %v", n, ok)
	}
	if m.Value(FieldLeads) != 7 {
		t.Errorf("leads = %v", m.Value(FieldLeads))
	}
	if _, ok := m.Number(FieldNoted); ok {
		t.Error("null should not be numeric")
	}
}

func TestSpendOrBudget(t *testing.T) {
	cases := []struct {
		name string
		in   map[string]string
		want float64
	}{
		{"spend", map[string]string{"Spend": "300", "Budget": "900"}, 300},
		{"budget fallback", map[string]string{"Budget": "900"}, 900},
		{"non-numeric spend falls back", map[string]string{"Spend": "abc", "Budget": "50"}, 50},
		{"neither", map[string]string{"Leads": "3"}, 0},
		{"non-numeric only", map[string]string{"Spend": "abc"}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := MetricsFromStrings(c.in).SpendOrBudget(); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestMarketingRecordDay(t *testing.T) {
	r := MarketingRecord{Date: "2024-03-05"}
	d, ok := r.Day()
	if !ok || d.Format(DateLayout) != "2024-03-05" {
		t.Errorf("day = %v %v", d, ok)
	}
	r.Date = "2024-03-05T17:30:00Z"
	d, ok = r.Day()
	if !ok || d.Format(DateLayout) != "2024-03-05" {
		t.Errorf("rfc3339 day = %v %v", d, ok)
	}
	r.Date = "yesterday"
	if _, ok := r.Day(); ok {
		t.Error("garbage date should not parse")
	}
}

func TestValidate(t *testing.T) {
	u := User{ID: "1", Username: "admin", Password: "password", Role: "root"}
	if err := u.Validate(); err == nil {
		t.Error("unknown role should fail")
	}
	u.Role = RoleAdmin
	if err := u.Validate(); err != nil {
		t.Errorf("valid user: %v", err)
	}

	r := MarketingRecord{ID: "r1", Date: "2024-13-40", Category: CategoryOrganic, Channel: ChannelFacebook, Objective: ObjectiveAwareness}
	if err := r.Validate(); err == nil {
		t.Error("bad date should fail")
	}
	r.Date = "2024-01-02"
	if err := r.Validate(); err != nil {
		t.Errorf("valid record: %v", err)
	}
	r.Channel = "Myspace"
	if err := r.Validate(); err == nil {
		t.Error("unknown channel should fail")
	}

	task := Task{ID: "t1", Title: "x", Status: "blocked"}
	if err := task.Validate(); err == nil {
		t.Error("unknown status should fail")
	}
}
