// Package models defines the domain types for the marketing dashboard.
package models

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin                 Role = "admin"
	RoleAdsSpecialist         Role = "ads_specialist"
	RoleSocialMediaSpecialist Role = "social_media_specialist"
)

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleAdsSpecialist, RoleSocialMediaSpecialist}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAdsSpecialist, RoleSocialMediaSpecialist:
		return true
	default:
		return false
	}
}

// Category groups channels into owned and paid surfaces.
type Category string

const (
	CategoryOrganic Category = "Organik"
	CategoryPaidAds Category = "Paid Ads"
)

func (c Category) IsValid() bool {
	return c == CategoryOrganic || c == CategoryPaidAds
}

// Channel is a marketing platform or surface.
type Channel string

const (
	ChannelMetaAds   Channel = "Meta Ads"
	ChannelGoogleAds Channel = "Google Ads"
	ChannelTiktokAds Channel = "Tiktok Ads"
	ChannelFacebook  Channel = "Facebook"
	ChannelInstagram Channel = "Instagram"
	ChannelWebsite   Channel = "Website"
	ChannelTiktok    Channel = "Tiktok"
	ChannelYoutube   Channel = "Youtube"
)

func (c Channel) IsValid() bool {
	switch c {
	case ChannelMetaAds, ChannelGoogleAds, ChannelTiktokAds,
		ChannelFacebook, ChannelInstagram, ChannelWebsite, ChannelTiktok, ChannelYoutube:
		return true
	default:
		return false
	}
}

// Objective is the funnel stage a record was logged against.
type Objective string

const (
	ObjectiveAwareness     Objective = "Awareness"
	ObjectiveConsideration Objective = "Consideration"
	ObjectiveConversion    Objective = "Conversion"
)

// Objectives returns every objective in funnel order.
func Objectives() []Objective {
	return []Objective{ObjectiveAwareness, ObjectiveConsideration, ObjectiveConversion}
}

func (o Objective) IsValid() bool {
	switch o {
	case ObjectiveAwareness, ObjectiveConsideration, ObjectiveConversion:
		return true
	default:
		return false
	}
}

// TaskStatus is a kanban column. Any status may move to any other.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses returns the workflow columns in board order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// View is a top-level section of the dashboard.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewData       View = "data"
	ViewTask       View = "task"
	ViewManagement View = "management"
)

// Views returns every view in menu order.
func Views() []View {
	return []View{ViewDashboard, ViewData, ViewTask, ViewManagement}
}

func (v View) IsValid() bool {
	switch v {
	case ViewDashboard, ViewData, ViewTask, ViewManagement:
		return true
	default:
		return false
	}
}

// anyOf adapts a typed slice for ozzo's validation.In.
func anyOf[T any](xs []T) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
