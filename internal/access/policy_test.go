package access

import (
	"testing"

	"github.com/starford/digimark/internal/models"
)

func TestAdminSeesEverything(t *testing.T) {
	c := CapabilitiesFor(models.RoleAdmin)
	for _, v := range models.Views() {
		if !c.CanView(v) {
			t.Errorf("admin cannot view %q", v)
		}
	}
	if !c.AllowsCategory(models.CategoryOrganic) || !c.AllowsCategory(models.CategoryPaidAds) {
		t.Errorf("admin categories = %v", c.Categories)
	}
	if c.DefaultCategory() != models.CategoryOrganic || c.DefaultChannel() != models.ChannelFacebook {
		t.Errorf("admin defaults = %q/%q", c.DefaultCategory(), c.DefaultChannel())
	}
}

func TestSpecialists(t *testing.T) {
	cases := []struct {
		role    models.Role
		allowed models.Category
		denied  models.Category
		channel models.Channel
	}{
		{models.RoleAdsSpecialist, models.CategoryPaidAds, models.CategoryOrganic, models.ChannelMetaAds},
		{models.RoleSocialMediaSpecialist, models.CategoryOrganic, models.CategoryPaidAds, models.ChannelFacebook},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			c := CapabilitiesFor(tc.role)
			if !c.AllowsCategory(tc.allowed) || c.AllowsCategory(tc.denied) {
				t.Errorf("categories = %v", c.Categories)
			}
			if c.CanView(models.ViewManagement) {
				t.Error("specialist should not see management")
			}
			for _, v := range []models.View{models.ViewDashboard, models.ViewData, models.ViewTask} {
				if !c.CanView(v) {
					t.Errorf("cannot view %q", v)
				}
			}
			if c.DefaultCategory() != tc.allowed {
				t.Errorf("default category = %q", c.DefaultCategory())
			}
			if c.DefaultChannel() != tc.channel {
				t.Errorf("default channel = %q", c.DefaultChannel())
			}
		})
	}
}

func TestUnknownRoleHasNothing(t *testing.T) {
	c := CapabilitiesFor("intern")
	if len(c.Views) != 0 || len(c.Categories) != 0 {
		t.Errorf("unknown role capabilities = %+v", c)
	}
	if c.CanView(models.ViewDashboard) {
		t.Error("unknown role should not view dashboard")
	}
	if c.DefaultCategory() != "" || c.DefaultChannel() != "" {
		t.Errorf("unknown role defaults = %q/%q, want empty", c.DefaultCategory(), c.DefaultChannel())
	}
}

func TestCapabilitiesAreIndependentCopies(t *testing.T) {
	a := CapabilitiesFor(models.RoleAdsSpecialist)
	a.Views[0] = models.ViewManagement
	b := CapabilitiesFor(models.RoleAdsSpecialist)
	if b.Views[0] != models.ViewDashboard {
		t.Error("capabilities share backing storage")
	}
}
