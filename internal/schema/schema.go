// Package schema is the static registry of channels, categories and the
// metric fields each channel accepts.
package schema

import (
	"slices"
	"sort"

	"github.com/starford/digimark/internal/models"
)

var channelFields = map[models.Channel][]models.MetricField{
	models.ChannelMetaAds: {
		models.FieldStartDate, models.FieldEndDate, models.FieldSpend, models.FieldReach,
		models.FieldImpressions, models.FieldCPM, models.FieldLinkClicks, models.FieldLinkCTR,
		models.FieldLinkCPC, models.FieldLeads, models.FieldClosing, models.FieldCPR,
		models.FieldRevenue, models.FieldROAS, models.FieldNoted,
	},
	models.ChannelGoogleAds: {
		models.FieldStartDate, models.FieldEndDate, models.FieldSpend, models.FieldImpressions,
		models.FieldClicks, models.FieldCPC, models.FieldCTR, models.FieldLeads,
		models.FieldClosing, models.FieldRevenue, models.FieldROAS,
	},
	models.ChannelTiktokAds: {
		models.FieldStartDate, models.FieldEndDate, models.FieldSpend, models.FieldReach,
		models.FieldImpressions, models.FieldCPM, models.FieldLinkClicks, models.FieldLinkCTR,
		models.FieldLinkCPC, models.FieldLeads, models.FieldClosing, models.FieldCPR,
		models.FieldRevenue, models.FieldROAS, models.FieldNoted,
	},
	models.ChannelFacebook: {
		models.FieldStartDate, models.FieldEndDate, models.FieldFollowers, models.FieldVideo,
		models.FieldReels, models.FieldImage, models.FieldCarousel, models.FieldContent,
		models.FieldReach, models.FieldViewsOrganic, models.FieldComments, models.FieldShares,
		models.FieldTotalEngagement, models.FieldLeads, models.FieldClosing, models.FieldBudget,
		models.FieldRevenue, models.FieldNoted,
	},
	models.ChannelInstagram: {
		models.FieldStartDate, models.FieldEndDate, models.FieldFollowers, models.FieldVideo,
		models.FieldReels, models.FieldImage, models.FieldCarousel, models.FieldContent,
		models.FieldReach, models.FieldImpressions, models.FieldLikes, models.FieldComments,
		models.FieldShares, models.FieldFollows, models.FieldSaves, models.FieldTotalEngagement,
		models.FieldLeads, models.FieldClosing, models.FieldRevenue, models.FieldBudget,
		models.FieldNoted,
	},
	models.ChannelTiktok: {
		models.FieldStartDate, models.FieldEndDate, models.FieldFollowers, models.FieldVideo,
		models.FieldReels, models.FieldImage, models.FieldCarousel, models.FieldContent,
		models.FieldReach, models.FieldImpressions, models.FieldLikes, models.FieldComments,
		models.FieldShares, models.FieldFollows, models.FieldSaves, models.FieldInteractions,
		models.FieldLeads, models.FieldClosing, models.FieldRevenue, models.FieldBudget,
		models.FieldNoted,
	},
	models.ChannelYoutube: {
		models.FieldStartDate, models.FieldEndDate, models.FieldSubscribers, models.FieldVideos,
		models.FieldShorts, models.FieldViews, models.FieldWatchTime, models.FieldEngagement,
		models.FieldLeads, models.FieldClosing, models.FieldRevenue, models.FieldNoted,
	},
	models.ChannelWebsite: {
		models.FieldStartDate, models.FieldEndDate, models.FieldSessions, models.FieldUsers,
		models.FieldPageviews, models.FieldBounceRate, models.FieldLeads, models.FieldClosing,
		models.FieldRevenue, models.FieldNoted,
	},
}

var categoryChannels = map[models.Category][]models.Channel{
	models.CategoryOrganic: {
		models.ChannelFacebook, models.ChannelInstagram, models.ChannelTiktok,
		models.ChannelYoutube, models.ChannelWebsite,
	},
	models.CategoryPaidAds: {
		models.ChannelMetaAds, models.ChannelGoogleAds, models.ChannelTiktokAds,
	},
}

// Categories returns both categories, organic first.
func Categories() []models.Category {
	return []models.Category{models.CategoryOrganic, models.CategoryPaidAds}
}

// Channels returns every channel grouped by category.
func Channels() []models.Channel {
	var out []models.Channel
	for _, c := range Categories() {
		out = append(out, categoryChannels[c]...)
	}
	return out
}

// MetricFieldsFor returns the ordered metric fields of a channel. Unknown
// channels have no fields.
func MetricFieldsFor(ch models.Channel) []models.MetricField {
	return slices.Clone(channelFields[ch])
}

// ChannelsFor returns the channels of a category in form order.
func ChannelsFor(cat models.Category) []models.Channel {
	return slices.Clone(categoryChannels[cat])
}

// CategoryOf returns the category a channel belongs to.
func CategoryOf(ch models.Channel) (models.Category, bool) {
	for cat, chans := range categoryChannels {
		if slices.Contains(chans, ch) {
			return cat, true
		}
	}
	return "", false
}

// Belongs reports whether ch is one of cat's channels.
func Belongs(cat models.Category, ch models.Channel) bool {
	return slices.Contains(categoryChannels[cat], ch)
}

// HasField reports whether field is part of ch's schema.
func HasField(ch models.Channel, field models.MetricField) bool {
	return slices.Contains(channelFields[ch], field)
}

// Resolved is a metric mapping split against a channel's schema.
type Resolved struct {
	Metrics models.Metrics
	// Unknown lists keys that are not part of the channel's fields, sorted.
	Unknown []models.MetricField
}

// Resolve checks raw metrics against the channel's fields. Keys outside the
// schema are kept in Metrics and reported in Unknown; they are not dropped.
func Resolve(ch models.Channel, raw models.Metrics) Resolved {
	res := Resolved{Metrics: make(models.Metrics, len(raw))}
	for k, v := range raw {
		if k.IsDate() || k.IsText() {
			v = models.MetricValue{Text: v.Text}
		}
		res.Metrics[k] = v
		if !HasField(ch, k) {
			res.Unknown = append(res.Unknown, k)
		}
	}
	sort.Slice(res.Unknown, func(i, j int) bool { return res.Unknown[i] < res.Unknown[j] })
	return res
}
