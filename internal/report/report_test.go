package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/starford/digimark/internal/aggregate"
	"github.com/starford/digimark/internal/models"
)

func sample() aggregate.Dashboard {
	m := func(kv map[string]string) models.Metrics { return models.MetricsFromStrings(kv) }
	return aggregate.Build([]models.MarketingRecord{
		{ID: "a", Date: "2024-01-05", Category: models.CategoryPaidAds, Channel: models.ChannelMetaAds,
			Metrics: m(map[string]string{"Spend": "1500", "Revenue": "6600", "Leads": "13"})},
		{ID: "b", Date: "2024-01-06", Category: models.CategoryOrganic, Channel: models.ChannelInstagram,
			Metrics: m(map[string]string{"Jangkauan": "2300"})},
	}, aggregate.Filter{})
}

func TestRender(t *testing.T) {
	out := Render(sample())
	for _, want := range []string{"Marketing dashboard", "category all, channel all", "1500", "6600", "4.40x", "Meta Ads", "Instagram", "2024-01-06"} {
		if !strings.Contains(out, want) {
			t.Errorf("styled output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_Empty(t *testing.T) {
	out := Render(aggregate.Build(nil, aggregate.Filter{Channel: models.ChannelYoutube}))
	if !strings.Contains(out, "No records match") || !strings.Contains(out, "channel Youtube") {
		t.Errorf("unexpected empty output:\n%s", out)
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sample())
	for _, want := range []string{"| ROAS | 4.40x |", "| Meta Ads | 1 |", "| 2024-01-05 | 6600 | 1500 |", "| Reach | 2300 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestWrite_Formats(t *testing.T) {
	for _, f := range Formats() {
		var buf bytes.Buffer
		if err := Write(&buf, sample(), f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !strings.Contains(buf.String(), "Meta") {
			t.Errorf("%s output missing channel:\n%s", f, buf.String())
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, sample(), "html"); err == nil {
		t.Error("expected error for unknown format")
	}
}
