// Package access maps a role to what its holder may see and create.
//
// The policy is advisory: it drives which views and record categories are
// offered, but anything with direct store access can bypass it.
package access

import (
	"slices"

	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/schema"
)

// Capabilities is the computed permission set for one role.
type Capabilities struct {
	Role       models.Role       `json:"role"`
	Views      []models.View     `json:"views"`
	Categories []models.Category `json:"categories"`
}

var workViews = []models.View{models.ViewDashboard, models.ViewData, models.ViewTask}

// CapabilitiesFor returns the capabilities of role. Unknown roles get none.
func CapabilitiesFor(role models.Role) Capabilities {
	c := Capabilities{Role: role, Views: []models.View{}, Categories: []models.Category{}}
	switch role {
	case models.RoleAdmin:
		c.Views = models.Views()
		c.Categories = schema.Categories()
	case models.RoleAdsSpecialist:
		c.Views = slices.Clone(workViews)
		c.Categories = []models.Category{models.CategoryPaidAds}
	case models.RoleSocialMediaSpecialist:
		c.Views = slices.Clone(workViews)
		c.Categories = []models.Category{models.CategoryOrganic}
	}
	return c
}

// CanView reports whether v is among the visible views.
func (c Capabilities) CanView(v models.View) bool {
	return slices.Contains(c.Views, v)
}

// AllowsCategory reports whether records may be created under cat.
func (c Capabilities) AllowsCategory(cat models.Category) bool {
	return slices.Contains(c.Categories, cat)
}

// DefaultCategory is the category preselected on a new record, or "" when
// the role may not create records.
func (c Capabilities) DefaultCategory() models.Category {
	if len(c.Categories) == 0 {
		return ""
	}
	if c.Role == models.RoleAdsSpecialist {
		return models.CategoryPaidAds
	}
	return models.CategoryOrganic
}

// DefaultChannel is the first channel of DefaultCategory.
func (c Capabilities) DefaultChannel() models.Channel {
	chans := schema.ChannelsFor(c.DefaultCategory())
	if len(chans) == 0 {
		return ""
	}
	return chans[0]
}
