package schema

import (
	"testing"

	"github.com/starford/digimark/internal/models"
)

func TestChannelsPartitionedByCategory(t *testing.T) {
	seen := make(map[models.Channel]models.Category)
	for _, cat := range Categories() {
		for _, ch := range ChannelsFor(cat) {
			if prev, dup := seen[ch]; dup {
				t.Fatalf("channel %q in both %q and %q", ch, prev, cat)
			}
			seen[ch] = cat
		}
	}
	all := []models.Channel{
		models.ChannelMetaAds, models.ChannelGoogleAds, models.ChannelTiktokAds,
		models.ChannelFacebook, models.ChannelInstagram, models.ChannelWebsite,
		models.ChannelTiktok, models.ChannelYoutube,
	}
	if len(seen) != len(all) {
		t.Fatalf("partition covers %d channels, want %d", len(seen), len(all))
	}
	for _, ch := range all {
		cat, ok := CategoryOf(ch)
		if !ok {
			t.Errorf("channel %q has no category", ch)
			continue
		}
		if seen[ch] != cat {
			t.Errorf("CategoryOf(%q) = %q, want %q", ch, cat, seen[ch])
		}
	}
}

func TestChannelsOrder(t *testing.T) {
	got := Channels()
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	if got[0] != models.ChannelFacebook || got[5] != models.ChannelMetaAds {
		t.Errorf("channels = %v", got)
	}
}

func TestMetricFieldsFor(t *testing.T) {
	fields := MetricFieldsFor(models.ChannelGoogleAds)
	if len(fields) != 11 {
		t.Fatalf("google ads fields = %d, want 11", len(fields))
	}
	if fields[0] != models.FieldStartDate || fields[2] != models.FieldSpend {
		t.Errorf("unexpected order: %v", fields)
	}
	if len(MetricFieldsFor("Friendster")) != 0 {
		t.Error("unknown channel should have no fields")
	}

	// Returned slices are copies.
	fields[0] = "mutated"
	if MetricFieldsFor(models.ChannelGoogleAds)[0] != models.FieldStartDate {
		t.Error("registry was mutated through returned slice")
	}
}

func TestEveryChannelHasFields(t *testing.T) {
	for _, ch := range Channels() {
		fields := MetricFieldsFor(ch)
		if len(fields) == 0 {
			t.Errorf("%q has no fields", ch)
		}
		if !HasField(ch, models.FieldRevenue) {
			t.Errorf("%q is missing Revenue", ch)
		}
	}
}

func TestBelongs(t *testing.T) {
	if !Belongs(models.CategoryPaidAds, models.ChannelTiktokAds) {
		t.Error("Tiktok Ads should be paid")
	}
	if Belongs(models.CategoryPaidAds, models.ChannelTiktok) {
		t.Error("Tiktok should not be paid")
	}
}

func TestResolveKeepsUnknownKeys(t *testing.T) {
	raw := models.MetricsFromStrings(map[string]string{
		"Spend":     "1000",
		"Followers": "12",
		"Bogus":     "x",
	})
	res := Resolve(models.ChannelMetaAds, raw)
	if len(res.Metrics) != 3 {
		t.Fatalf("metrics = %d, want 3", len(res.Metrics))
	}
	if len(res.Unknown) != 2 || res.Unknown[0] != "Bogus" || res.Unknown[1] != models.FieldFollowers {
		t.Errorf("unknown = %v", res.Unknown)
	}
	if n, ok := res.Metrics.Number(models.FieldSpend); !ok || n != 1000 {
		t.Errorf("spend = %v, %v", n, ok)
	}
}

func TestResolveKeepsDateAndNoteFieldsAsText(t *testing.T) {
	raw := models.MetricsFromStrings(map[string]string{
		"Tanggal Mulai": "20240115",
		"Noted":         "42",
		"Spend":         "1000",
	})
	res := Resolve(models.ChannelMetaAds, raw)

	for _, f := range []models.MetricField{models.FieldStartDate, models.FieldNoted} {
		v := res.Metrics[f]
		if v.IsNumber {
			t.Errorf("%s resolved as number %v", f, v.Number)
		}
		if v.Text != raw[f].Text {
			t.Errorf("%s text = %q, want %q", f, v.Text, raw[f].Text)
		}
	}
	if n, ok := res.Metrics.Number(models.FieldSpend); !ok || n != 1000 {
		t.Errorf("Spend = %v, %v", n, ok)
	}
}
