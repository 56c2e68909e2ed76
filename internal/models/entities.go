package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the calendar-day layout used for record dates.
const DateLayout = "2006-01-02"

// User is a dashboard account. Passwords are stored and compared in
// plaintext; this mirrors the source system and is not a security boundary.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

// Identity implements repository.Entity.
func (u User) Identity() string { return u.ID }

// Public returns a copy without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Validate checks required fields and the role enumeration.
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.ID, validation.Required),
		validation.Field(&u.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&u.Password, validation.Required),
		validation.Field(&u.Role, validation.Required, validation.In(anyOf(Roles())...)),
	)
}

// MarketingRecord is one logged performance entry for a date and channel.
type MarketingRecord struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Category  Category  `json:"category"`
	Channel   Channel   `json:"channel"`
	Objective Objective `json:"objective"`
	Metrics   Metrics   `json:"metrics"`
	UserID    string    `json:"userId"`
}

// Identity implements repository.Entity.
func (r MarketingRecord) Identity() string { return r.ID }

// Day parses the record date as a calendar day. Both YYYY-MM-DD and RFC 3339
// timestamps are accepted.
func (r MarketingRecord) Day() (time.Time, bool) {
	if t, err := time.Parse(DateLayout, r.Date); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, r.Date); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Validate checks field presence and enumerations. Channel/category
// consistency is checked against the schema registry by the caller.
func (r MarketingRecord) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.Category, validation.Required, validation.In(CategoryOrganic, CategoryPaidAds)),
		validation.Field(&r.Channel, validation.Required, validation.By(func(v interface{}) error {
			if c, _ := v.(Channel); !c.IsValid() {
				return validation.NewError("validation_channel", "must be a known channel")
			}
			return nil
		})),
		validation.Field(&r.Objective, validation.Required, validation.In(anyOf(Objectives())...)),
	)
}

// Task is a card on the team task board.
type Task struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Label   string     `json:"label"`
	Content string     `json:"content"`
	Status  TaskStatus `json:"status"`
}

// Identity implements repository.Entity.
func (t Task) Identity() string { return t.ID }

// Validate checks required fields and the status enumeration.
func (t Task) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required),
		validation.Field(&t.Title, validation.Required),
		validation.Field(&t.Status, validation.Required, validation.In(anyOf(TaskStatuses())...)),
	)
}
