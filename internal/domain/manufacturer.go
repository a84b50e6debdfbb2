package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ManufacturerStage is how far a manufacturer has taken perovskite production.
type ManufacturerStage string

const (
	StageResearch       ManufacturerStage = "research"
	StagePilot          ManufacturerStage = "pilot"
	StageMassProduction ManufacturerStage = "mass_production"
	StageListed         ManufacturerStage = "listed"
)

// Valid reports whether s is a known stage.
func (s ManufacturerStage) Valid() bool {
	switch s {
	case StageResearch, StagePilot, StageMassProduction, StageListed:
		return true
	}
	return false
}

// Achievement is one headline result on a manufacturer profile.
type Achievement struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Date  string `json:"date,omitempty"`
}

// Achievements stores achievements as a JSON text column.
type Achievements []Achievement

// Value implements driver.Valuer.
func (a Achievements) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *Achievements) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*a = Achievements{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("failed to scan Achievements")
	}
}

// Manufacturer is a company profile in the industry directory.
// Inactive rows are hidden from every public read.
type Manufacturer struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"type:varchar(200);not null;index:idx_manufacturer_name" json:"name"`
	NameEn           *string           `gorm:"type:varchar(200)" json:"nameEn"`
	Country          string            `gorm:"type:varchar(100);not null;index:idx_manufacturer_country" json:"country"`
	Region           *string           `gorm:"type:varchar(100)" json:"region"`
	FoundedYear      *int              `json:"foundedYear"`
	Website          *string           `gorm:"type:varchar(500)" json:"website"`
	LogoURL          *string           `gorm:"type:varchar(1000)" json:"logoUrl"`
	Description      *string           `gorm:"type:text" json:"description"`
	MainProducts     StringArray       `gorm:"type:text" json:"mainProducts"`
	TechAchievements Achievements      `gorm:"type:text" json:"techAchievements"`
	StockCode        *string           `gorm:"type:varchar(50)" json:"stockCode"`
	Stage            ManufacturerStage `gorm:"type:varchar(32);not null;default:research" json:"stage"`
	Capacity         *string           `gorm:"type:varchar(200)" json:"capacity"`
	LatestNews       *string           `gorm:"type:text" json:"latestNews"`
	IsActive         bool              `gorm:"not null;default:true" json:"isActive"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// TableName returns the database table name for Manufacturer.
func (Manufacturer) TableName() string {
	return "manufacturers"
}
