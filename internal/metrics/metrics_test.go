package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/starford/digimark/internal/models"
)

func record(cat models.Category, ch models.Channel, kv map[string]string) models.MarketingRecord {
	return models.MarketingRecord{Category: cat, Channel: ch, Metrics: models.MetricsFromStrings(kv)}
}

func TestObserve(t *testing.T) {
	c := New()
	c.Observe([]models.MarketingRecord{
		record(models.CategoryPaidAds, models.ChannelMetaAds, map[string]string{"Spend": "1000", "Revenue": "5000"}),
		record(models.CategoryPaidAds, models.ChannelMetaAds, map[string]string{"Spend": "500", "Leads": "3"}),
		record(models.CategoryOrganic, models.ChannelFacebook, map[string]string{"Budget": "200", "Jangkauan": "900"}),
	}, []models.Task{
		{ID: "1", Status: models.TaskStatusTodo},
		{ID: "2", Status: models.TaskStatusTodo},
		{ID: "3", Status: models.TaskStatusDone},
	})

	if got := testutil.ToFloat64(c.records.WithLabelValues("Paid Ads", "Meta Ads")); got != 2 {
		t.Errorf("records = %v", got)
	}
	if got := testutil.ToFloat64(c.spend.WithLabelValues("Paid Ads", "Meta Ads")); got != 1500 {
		t.Errorf("spend = %v", got)
	}
	if got := testutil.ToFloat64(c.spend.WithLabelValues("Organik", "Facebook")); got != 200 {
		t.Errorf("budget fallback = %v", got)
	}
	if got := testutil.ToFloat64(c.reach.WithLabelValues("Organik", "Facebook")); got != 900 {
		t.Errorf("reach = %v", got)
	}
	if got := testutil.ToFloat64(c.records.WithLabelValues("Organik", "Youtube")); got != 0 {
		t.Errorf("empty channel = %v", got)
	}
	if got := testutil.ToFloat64(c.tasks.WithLabelValues("todo")); got != 2 {
		t.Errorf("todo = %v", got)
	}
	if got := testutil.ToFloat64(c.tasks.WithLabelValues("in-progress")); got != 0 {
		t.Errorf("in-progress = %v", got)
	}
}

func TestObserve_ReplacesPreviousValues(t *testing.T) {
	c := New()
	c.Observe([]models.MarketingRecord{record(models.CategoryOrganic, models.ChannelTiktok, nil)}, nil)
	c.Observe(nil, nil)
	if got := testutil.ToFloat64(c.records.WithLabelValues("Organik", "Tiktok")); got != 0 {
		t.Errorf("records after reset = %v", got)
	}
}

func TestLoginAttempt(t *testing.T) {
	c := New()
	c.LoginAttempt(true)
	c.LoginAttempt(false)
	c.LoginAttempt(false)
	if got := testutil.ToFloat64(c.logins.WithLabelValues("failure")); got != 2 {
		t.Errorf("failures = %v", got)
	}
	if got := testutil.ToFloat64(c.logins.WithLabelValues("success")); got != 1 {
		t.Errorf("successes = %v", got)
	}
}

func TestHandler(t *testing.T) {
	c := New()
	c.LoginAttempt(true)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `digimark_login_attempts_total{result="success"} 1`) {
		t.Errorf("exposition missing login counter:\n%s", body)
	}
}
