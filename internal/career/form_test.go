package career

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

func validForm(t *testing.T) Form {
	t.Helper()
	f := Form{
		FullName:          "Asha Rao",
		Email:             "asha@example.com",
		City:              "Pune",
		PhoneNumber:       "9876543210",
		Aspirations:       "Build great products",
		ApplyFor:          "Frontend Intern",
		PrimarySkill:      "Coding",
		SkillsDescription: "React, Go",
		ExpectedStipend:   StipendUnpaid,
		JobType:           JobTypeInternship,
	}
	require.NoError(t, f.AttachResume("cv.pdf", "application/pdf", samplePDF))
	return f
}

func TestValidateAcceptsUnpaidForm(t *testing.T) {
	f := validForm(t)
	assert.NoError(t, f.Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cases := map[string]func(f *Form){
		"name":       func(f *Form) { f.FullName = "" },
		"email":      func(f *Form) { f.Email = "" },
		"blank mail": func(f *Form) { f.Email = "   "; f.Normalize() },
		"city":       func(f *Form) { f.City = "" },
		"skill":      func(f *Form) { f.PrimarySkill = "Juggling" },
		"stipend":    func(f *Form) { f.ExpectedStipend = "" },
		"resume":     func(f *Form) { f.Resume = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := validForm(t)
			mutate(&f)
			assert.ErrorIs(t, f.Validate(), ErrValidation)
		})
	}
}

func TestValidateOnlyRequiresEmailPresence(t *testing.T) {
	for _, email := range []string{"user@localhost", "x@y", "a.b@x.co"} {
		f := validForm(t)
		f.Email = email
		assert.NoError(t, f.Validate(), email)
	}
}

func TestNormalizeTreatsWhitespaceAsMissing(t *testing.T) {
	f := validForm(t)
	f.City = "   "
	f.Normalize()
	assert.ErrorIs(t, f.Validate(), ErrValidation)
}

func TestPaidRequiresExperienceAndAmount(t *testing.T) {
	f := validForm(t)
	f.ExpectedStipend = StipendPaid
	assert.ErrorIs(t, f.Validate(), ErrValidation)

	f.Experience = "3-6 months"
	f.StipendAmountOption = "5000"
	assert.NoError(t, f.Validate())

	f.StipendAmountOption = StipendOptionOther
	assert.ErrorIs(t, f.Validate(), ErrValidation)

	f.StipendAmountCustom = "7500"
	assert.NoError(t, f.Validate())
	assert.Equal(t, "7500", f.StipendAmount())
}

func TestUnpaidIgnoresPaidOnlyFields(t *testing.T) {
	f := validForm(t)
	f.Experience = "bogus"
	f.StipendAmountOption = "bogus"
	require.NoError(t, f.Validate())

	rec := f.Record("https://cdn/resume.pdf", time.Unix(0, 0))
	assert.Empty(t, rec.Experience)
	assert.Empty(t, rec.StipendAmount)
}

func TestRecordIncludesPaidFields(t *testing.T) {
	f := validForm(t)
	f.ExpectedStipend = StipendPaid
	f.Experience = "6+ months"
	f.StipendAmountOption = StipendOptionOther
	f.StipendAmountCustom = "7500"
	f.JobType = "Full-time"

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := f.Record("https://cdn/resume.pdf", at)
	assert.Equal(t, "6+ months", rec.Experience)
	assert.Equal(t, "7500", rec.StipendAmount)
	assert.Equal(t, JobTypeFullTime, rec.JobType)
	assert.Equal(t, "https://cdn/resume.pdf", rec.Resume)
	assert.Equal(t, at, rec.Timestamp)
}

func TestAttachResumeRejectsNonPDF(t *testing.T) {
	var f Form

	err := f.AttachResume("cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK\x03\x04"))
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Nil(t, f.Resume)

	// declared as pdf but the bytes are not
	err = f.AttachResume("cv.pdf", "application/pdf", []byte("hello world"))
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Nil(t, f.Resume)

	require.NoError(t, f.AttachResume("cv.pdf", "application/pdf; charset=binary", samplePDF))
	require.NotNil(t, f.Resume)

	// a rejected replacement clears the previous attachment
	assert.ErrorIs(t, f.AttachResume("cat.png", "image/png", []byte("\x89PNG")), ErrNotPDF)
	assert.Nil(t, f.Resume)
}

func TestNormalizeJobType(t *testing.T) {
	assert.Equal(t, JobTypeFullTime, NormalizeJobType("full-time"))
	assert.Equal(t, JobTypeInternship, NormalizeJobType(""))
	assert.Equal(t, JobTypeInternship, NormalizeJobType("Internship"))
}

func TestResumeKeyAndDisposition(t *testing.T) {
	at := time.UnixMilli(1714557600123)
	assert.Equal(t, "resumes/asha@example.com-1714557600123.pdf", ResumeKey("asha@example.com", at))
	assert.Equal(t, `inline; filename="asha@example.com-resume.pdf"`, ResumeDisposition("asha@example.com"))
}

func TestAlertMessages(t *testing.T) {
	assert.Equal(t, AlertDuplicate, Alert(ErrDuplicate))
	assert.Equal(t, AlertValidation, Alert(ErrValidation))
	assert.Equal(t, AlertNotPDF, Alert(ErrNotPDF))
	assert.Equal(t, AlertSubmission, Alert(ErrSubmission))
	assert.Empty(t, Alert(nil))
}
