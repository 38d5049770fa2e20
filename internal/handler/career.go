package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"zymo/internal/auth"
	"zymo/internal/cache"
	"zymo/internal/career"
	"zymo/internal/logging"
	"zymo/internal/meta"
)

const alertTooLarge = "Resume is too large. Please upload a smaller PDF."

var errTooLarge = errors.New("upload too large")

type careerView struct {
	Page           meta.Page
	Submitted      bool
	Alert          string
	Form           career.Form
	JobTypes       []string
	PrimarySkills  []string
	StipendKinds   []string
	Experiences    []string
	StipendOptions []string
}

func (h *Handler) newCareerView(form career.Form) careerView {
	if form.JobType == "" {
		form.JobType = career.JobTypeInternship
	}
	return careerView{
		Page:           h.pages.Career(),
		Form:           form,
		JobTypes:       []string{career.JobTypeInternship, career.JobTypeFullTime},
		PrimarySkills:  career.PrimarySkills,
		StipendKinds:   []string{career.StipendPaid, career.StipendUnpaid},
		Experiences:    career.Experiences,
		StipendOptions: career.StipendOptions,
	}
}

// showCareer renders the confirmation while the visitor's screen is in the
// Submitted state and an empty form otherwise.
func (h *Handler) showCareer(c *gin.Context) {
	view := h.newCareerView(career.Form{})
	view.Submitted = h.tracker.State(auth.SessionID(c)) == career.Submitted
	c.HTML(http.StatusOK, "career.tmpl", view)
}

func (h *Handler) submitCareer(c *gin.Context) {
	sid := auth.SessionID(c)
	form, err := h.readForm(c)
	if err != nil {
		view := h.newCareerView(form)
		view.Alert = formAlert(err)
		c.HTML(submitStatus(err), "career.tmpl", view)
		return
	}

	app, err := h.submit(c, form)
	if err != nil {
		// the file input cannot be pre-filled; everything else is kept
		form.Normalize()
		form.Resume = nil
		view := h.newCareerView(form)
		view.Alert = career.Alert(err)
		c.HTML(submitStatus(err), "career.tmpl", view)
		return
	}

	h.afterSubmit(c, sid, app)
	c.Redirect(http.StatusSeeOther, "/career")
}

func (h *Handler) submitApplicationJSON(c *gin.Context) {
	sid := auth.SessionID(c)
	form, err := h.readForm(c)
	if err != nil {
		c.JSON(submitStatus(err), gin.H{"error": formAlert(err)})
		return
	}
	app, err := h.submit(c, form)
	if err != nil {
		c.JSON(submitStatus(err), gin.H{"error": career.Alert(err)})
		return
	}
	h.afterSubmit(c, sid, app)
	c.JSON(http.StatusCreated, gin.H{
		"id":        app.ID,
		"resume":    app.Resume,
		"timestamp": app.Timestamp,
	})
}

func (h *Handler) submit(c *gin.Context, form career.Form) (career.Application, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.submitTimeout)
	defer cancel()
	return h.careers.Submit(ctx, form)
}

// afterSubmit remembers the submitted email for the visitor and switches
// their screen to the confirmation.
func (h *Handler) afterSubmit(c *gin.Context, sid string, app career.Application) {
	if err := h.cache.For(cache.Local, sid).Store(c.Request.Context(), cache.KeySubmittedEmail, app.Email); err != nil {
		h.logger.Warn().Err(err).Str(logging.SESSION, sid).Msg("remember submitted email failed")
	}
	h.tracker.MarkSubmitted(sid)
	h.logger.Debug().
		Str(logging.SESSION, sid).
		Str(logging.STATE, career.Submitted.String()).
		Int("pending_resets", h.tracker.Len()).
		Msg("career screen switched")
}

// readForm binds the multipart form and attaches the résumé part when one
// was sent. A part that is not a PDF leaves the résumé empty and returns
// career.ErrNotPDF.
func (h *Handler) readForm(c *gin.Context) (career.Form, error) {
	var form career.Form
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return form, errTooLarge
		}
		return form, fmt.Errorf("%w: %v", career.ErrValidation, err)
	}

	// a urlencoded body carries no résumé; Submit reports it as missing
	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, nil
	}
	if err != nil {
		return form, fmt.Errorf("%w: %v", career.ErrValidation, err)
	}
	f, err := fh.Open()
	if err != nil {
		return form, fmt.Errorf("%w: open resume: %v", career.ErrSubmission, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return form, fmt.Errorf("%w: read resume: %v", career.ErrSubmission, err)
	}
	if err := form.AttachResume(fh.Filename, fh.Header.Get("Content-Type"), data); err != nil {
		return form, err
	}
	return form, nil
}

func formAlert(err error) string {
	if errors.Is(err, errTooLarge) {
		return alertTooLarge
	}
	return career.Alert(err)
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, career.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, career.ErrValidation), errors.Is(err, career.ErrNotPDF):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
