package models

import "time"

// APIUsage stores aggregated request counts per day and route template.
// Rows are upserted atomically from the usage middleware.
type APIUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"index:idx_usage_date_route,unique;type:date;not null" json:"date"`
	Route     string    `gorm:"index:idx_usage_date_route,unique;size:255;not null" json:"route"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
