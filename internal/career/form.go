package career

import (
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

const pdfType = "application/pdf"

var validate = validator.New()

// Resume is an attached résumé file.
type Resume struct {
	Filename string
	Data     []byte
}

// Form holds the values submitted from the application form.
type Form struct {
	FullName            string `form:"fullName" validate:"required"`
	Email               string `form:"email" validate:"required"`
	City                string `form:"city" validate:"required"`
	PhoneNumber         string `form:"phoneNumber" validate:"required"`
	Aspirations         string `form:"aspirations" validate:"required"`
	ApplyFor            string `form:"applyFor" validate:"required"`
	PrimarySkill        string `form:"primarySkill" validate:"required,oneof=Coding Marketing Design Operations Finance HR Others"`
	SkillsDescription   string `form:"skillsDescription" validate:"required"`
	ExpectedStipend     string `form:"expectedStipend" validate:"required,oneof=Paid Unpaid"`
	Experience          string `form:"experience"`
	StipendAmountOption string `form:"stipendAmountOption"`
	StipendAmountCustom string `form:"stipendAmountCustom"`
	JobType             string `form:"jobType"`

	Resume *Resume `form:"-"`
}

// Normalize trims every text field and resolves the job type toggle.
func (f *Form) Normalize() {
	for _, p := range []*string{
		&f.FullName, &f.Email, &f.City, &f.PhoneNumber, &f.Aspirations, &f.ApplyFor,
		&f.PrimarySkill, &f.SkillsDescription, &f.ExpectedStipend, &f.Experience,
		&f.StipendAmountOption, &f.StipendAmountCustom,
	} {
		*p = strings.TrimSpace(*p)
	}
	f.JobType = NormalizeJobType(f.JobType)
}

// AttachResume sets the résumé when the part is a PDF. The declared content
// type must be application/pdf and the bytes must sniff as PDF; otherwise
// the résumé is left unset and ErrNotPDF is returned.
func (f *Form) AttachResume(filename, declaredType string, data []byte) error {
	f.Resume = nil
	if !isPDF(declaredType, data) {
		return ErrNotPDF
	}
	f.Resume = &Resume{Filename: filename, Data: data}
	return nil
}

func isPDF(declaredType string, data []byte) bool {
	mt := strings.TrimSpace(strings.ToLower(strings.SplitN(declaredType, ";", 2)[0]))
	if mt != pdfType || len(data) == 0 {
		return false
	}
	return mimetype.Detect(data).Is(pdfType)
}

// Paid reports whether the applicant expects a paid stipend.
func (f *Form) Paid() bool {
	return f.ExpectedStipend == StipendPaid
}

// StipendAmount resolves the amount: the custom text when Other was
// selected, the selected option otherwise.
func (f *Form) StipendAmount() string {
	if f.StipendAmountOption == StipendOptionOther {
		return f.StipendAmountCustom
	}
	return f.StipendAmountOption
}

// Validate checks that every mandatory field is present. The Paid-only
// fields are mandatory only when the stipend is Paid. The error wraps
// ErrValidation and does not name the failing field.
func (f *Form) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if f.Resume == nil {
		return fmt.Errorf("%w: resume missing", ErrValidation)
	}
	if f.Paid() {
		if !contains(Experiences, f.Experience) {
			return fmt.Errorf("%w: experience %q", ErrValidation, f.Experience)
		}
		if !contains(StipendOptions, f.StipendAmountOption) {
			return fmt.Errorf("%w: stipend option %q", ErrValidation, f.StipendAmountOption)
		}
		if f.StipendAmount() == "" {
			return fmt.Errorf("%w: custom stipend amount missing", ErrValidation)
		}
	}
	return nil
}

// Record composes the document to persist.
func (f *Form) Record(resumeURL string, at time.Time) Record {
	rec := Record{
		FullName:          f.FullName,
		Email:             f.Email,
		City:              f.City,
		PhoneNumber:       f.PhoneNumber,
		Aspirations:       f.Aspirations,
		PrimarySkill:      f.PrimarySkill,
		SkillsDescription: f.SkillsDescription,
		Resume:            resumeURL,
		ExpectedStipend:   f.ExpectedStipend,
		JobType:           NormalizeJobType(f.JobType),
		Timestamp:         at,
		ApplyFor:          f.ApplyFor,
	}
	if f.Paid() {
		rec.Experience = f.Experience
		rec.StipendAmount = f.StipendAmount()
	}
	return rec
}
