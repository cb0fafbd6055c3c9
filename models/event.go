package models

import "time"

// Event types shown on the portal front page.
const (
	EventTypeEvent = "event"
	EventTypeNews  = "news"
)

type Event struct {
	EventID      int        `gorm:"primaryKey;column:event_id" json:"event_id"`
	Title        string     `gorm:"column:title" json:"title"`
	Description  string     `gorm:"column:description" json:"description"`
	EventType    string     `gorm:"column:event_type" json:"event_type"` // event|news
	Location     *string    `gorm:"column:location" json:"location,omitempty"`
	ImagePath    *string    `gorm:"column:image_path" json:"image_path,omitempty"`
	EventDate    *time.Time `gorm:"column:event_date" json:"event_date,omitempty"`
	Status       string     `gorm:"column:status" json:"status"` // active|inactive
	DisplayOrder *int       `gorm:"column:display_order" json:"display_order,omitempty"`
	CreatedBy    int        `gorm:"column:created_by" json:"created_by"`
	PublishedAt  *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Event) TableName() string {
	return "events"
}
