package entities

import (
	"time"

	"zhipin-server/internal/domain/talent"
)

// Company represents the database schema for employer organizations.
type Company struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name  string `gorm:"type:varchar(200);not null"`
	City  string `gorm:"type:varchar(50)"`
	Intro string `gorm:"type:text"`
}

// TableName specifies the table name for Company.
func (Company) TableName() string {
	return "companies"
}

// EtoD converts database entity to domain model
func (c *Company) EtoD() *talent.Company {
	return &talent.Company{
		ID:    c.ID,
		Name:  c.Name,
		City:  c.City,
		Intro: c.Intro,
	}
}

// Job represents the database schema for published positions.
type Job struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID       string           `gorm:"type:varchar(50);uniqueIndex;not null"`
	EmployerUserID string           `gorm:"type:varchar(50);index;not null"`
	CompanyID      uint             `gorm:"index"`
	Company        *Company         `gorm:"foreignKey:CompanyID"`
	Title          string           `gorm:"type:varchar(200);not null"`
	Description    string           `gorm:"type:text"`
	City           string           `gorm:"type:varchar(50)"`
	SalaryMin      int              `gorm:"not null;default:0"`
	SalaryMax      int              `gorm:"not null;default:0"`
	SalaryCurrency string           `gorm:"type:varchar(10);not null;default:'CNY'"`
	Tags           string           `gorm:"type:text"`
	Status         talent.JobStatus `gorm:"type:varchar(20);index;not null;default:'open'"`
}

// TableName specifies the table name for Job.
func (Job) TableName() string {
	return "jobs"
}

// EtoD converts database entity to domain model
func (j *Job) EtoD() *talent.Job {
	job := &talent.Job{
		ID:             j.ID,
		PublicID:       j.PublicID,
		EmployerUserID: j.EmployerUserID,
		CompanyID:      j.CompanyID,
		Title:          j.Title,
		Description:    j.Description,
		City:           j.City,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		SalaryCurrency: j.SalaryCurrency,
		Tags:           j.Tags,
		Status:         j.Status,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
	if j.Company != nil {
		job.Company = j.Company.EtoD()
	}
	return job
}
