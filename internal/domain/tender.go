package domain

import "time"

// ProjectType classifies a tender.
type ProjectType string

const (
	ProjectTypeProcurement  ProjectType = "procurement"
	ProjectTypeConstruction ProjectType = "construction"
	ProjectTypeResearch     ProjectType = "research"
	ProjectTypeService      ProjectType = "service"
	ProjectTypeOther        ProjectType = "other"
)

// Valid reports whether p is one of the known project types.
func (p ProjectType) Valid() bool {
	switch p {
	case ProjectTypeProcurement, ProjectTypeConstruction, ProjectTypeResearch,
		ProjectTypeService, ProjectTypeOther:
		return true
	}
	return false
}

// NormalizeProjectType maps unknown values to other.
func NormalizeProjectType(s string) ProjectType {
	p := ProjectType(s)
	if !p.Valid() {
		return ProjectTypeOther
	}
	return p
}

// TenderStatus is the bidding state of a tender.
type TenderStatus string

const (
	TenderStatusOpen      TenderStatus = "open"
	TenderStatusClosed    TenderStatus = "closed"
	TenderStatusAwarded   TenderStatus = "awarded"
	TenderStatusCancelled TenderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s TenderStatus) Valid() bool {
	switch s {
	case TenderStatusOpen, TenderStatusClosed, TenderStatusAwarded, TenderStatusCancelled:
		return true
	}
	return false
}

// NormalizeTenderStatus maps empty or unknown values to open.
func NormalizeTenderStatus(s string) TenderStatus {
	st := TenderStatus(s)
	if !st.Valid() {
		return TenderStatusOpen
	}
	return st
}

// Tender is a tender or bidding notice. Budget is free text ("未披露", "约1200万元").
type Tender struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Title          string       `gorm:"type:varchar(500);not null;index:idx_tenders_title" json:"title"`
	Description    *string      `gorm:"type:text" json:"description"`
	ProjectType    ProjectType  `gorm:"type:varchar(32);not null;default:procurement;index:idx_tenders_project_type" json:"projectType"`
	Budget         *string      `gorm:"type:varchar(200)" json:"budget"`
	Region         *string      `gorm:"type:varchar(200);index:idx_tenders_region" json:"region"`
	PublisherName  *string      `gorm:"type:varchar(300)" json:"publisherName"`
	ContactInfo    *string      `gorm:"type:text" json:"contactInfo"`
	SourceURL      *string      `gorm:"type:varchar(1000)" json:"sourceUrl"`
	SourcePlatform *string      `gorm:"type:varchar(200)" json:"sourcePlatform"`
	Deadline       *time.Time   `json:"deadline"`
	IsImportant    bool         `gorm:"not null;default:false" json:"isImportant"`
	Status         TenderStatus `gorm:"type:varchar(32);not null;default:open;index:idx_tenders_status" json:"status"`
	PublishedAt    time.Time    `gorm:"not null;index:idx_tenders_published_at" json:"publishedAt"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// TableName returns the database table name for Tender.
func (Tender) TableName() string {
	return "tenders"
}
