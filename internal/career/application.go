// Package career implements the career application flow: form handling,
// validation, the duplicate check, résumé upload and persistence.
package career

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// Enumerated field values.
const (
	StipendPaid   = "Paid"
	StipendUnpaid = "Unpaid"

	JobTypeInternship = "Internship"
	JobTypeFullTime   = "Full-time"

	StipendOptionOther = "Other"
)

// Options offered by the form selects.
var (
	PrimarySkills  = []string{"Coding", "Marketing", "Design", "Operations", "Finance", "HR", "Others"}
	Experiences    = []string{"3-6 months", "6+ months"}
	StipendOptions = []string{"2000", "5000", "10000", StipendOptionOther}
)

// Application statuses.
const (
	StatusReceived     = "received"
	StatusAcknowledged = "acknowledged"
)

// Record is the persisted application document. Experience and
// StipendAmount are only present when the expected stipend is Paid.
type Record struct {
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	City              string    `json:"city"`
	PhoneNumber       string    `json:"phoneNumber"`
	Aspirations       string    `json:"aspirations"`
	PrimarySkill      string    `json:"primarySkill"`
	SkillsDescription string    `json:"skillsDescription"`
	Resume            string    `json:"resume"`
	ExpectedStipend   string    `json:"expectedStipend"`
	JobType           string    `json:"jobType"`
	Timestamp         time.Time `json:"timestamp"`
	ApplyFor          string    `json:"applyFor"`
	Experience        string    `json:"experience,omitempty"`
	StipendAmount     string    `json:"stipendAmount,omitempty"`
}

// Application is a stored Record.
type Application struct {
	ID     string
	Status string
	Record
}

// ResumeKey is the storage key for a résumé uploaded by email at t.
func ResumeKey(email string, t time.Time) string {
	return fmt.Sprintf("resumes/%s-%d.pdf", email, t.UnixMilli())
}

// ResumeDisposition is the inline Content-Disposition served with a résumé.
func ResumeDisposition(email string) string {
	return mime.FormatMediaType("inline", map[string]string{"filename": email + "-resume.pdf"})
}

// NormalizeJobType maps the toggle value to a job type; anything other
// than Full-time selects Internship.
func NormalizeJobType(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), JobTypeFullTime) {
		return JobTypeFullTime
	}
	return JobTypeInternship
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
