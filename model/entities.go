package model

import "time"

// Persisted entities for the widget API. Mapped through gorm; the data
// service owns migration and seeding.

type Organization struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// AllowedOrigins is a comma-separated list of origins permitted to embed
	// the widget. Empty means any origin.
	Name           string    `gorm:"size:100" json:"name"`
	Domain         string    `gorm:"size:100" json:"domain"`
	AllowedOrigins string    `gorm:"size:1024" json:"allowedOrigins"`
	CreatedAt      time.Time `json:"createdAt"`
}

type APIKey struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Key            string    `gorm:"size:64;uniqueIndex" json:"key"`
	OrganizationID uint      `gorm:"index" json:"organizationId"`
	IsActive       bool      `gorm:"default:true" json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

type GuestUsage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FingerprintHash string    `gorm:"size:64;index" json:"fingerprintHash"`
	IPAddress       string    `gorm:"size:45;index" json:"ipAddress"`
	UserAgentHash   string    `gorm:"size:64" json:"userAgentHash"`
	UsageCount      int       `json:"usageCount"`
	LastVisit       time.Time `json:"lastVisit"`
}

type UsageLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID *uint     `gorm:"index" json:"organizationId"`
	Endpoint       string    `gorm:"size:100" json:"endpoint"`
	Category       string    `gorm:"size:32" json:"category"`
	Color          string    `gorm:"size:16" json:"color"`
	CreatedAt      time.Time `json:"createdAt"`
}

type TryonSession struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionID      string    `gorm:"size:36;uniqueIndex" json:"sessionId"`
	OrganizationID *uint     `gorm:"index" json:"organizationId"`
	Category       string    `gorm:"size:32" json:"category"`
	Color          string    `gorm:"size:16" json:"color"`
	FaceDetected   bool      `json:"faceDetected"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Shade is one selectable preset color of a cosmetic category.
type Shade struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Category string `gorm:"size:32;index" json:"category"`
	Name     string `gorm:"size:64" json:"name"`
	Hex      string `gorm:"size:7" json:"hex"`
}
