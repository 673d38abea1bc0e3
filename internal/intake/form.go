// Package intake implements the report-submission dialog: a small state
// machine over the form fields whose one hard rule is that a hazardous
// situation is never filed as a routine report.
package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/crimson-sun/lampwatch/internal/model"
)

// Answer is a tri-state response to a yes/no question.
type Answer int

const (
	AnswerUnset Answer = iota
	AnswerYes
	AnswerNo
)

// DialogState tracks where the report dialog is in its lifecycle.
type DialogState int

const (
	StateClosed DialogState = iota
	StateEditing
	StateSubmitting
)

// ErrBlocked is returned when Submit is called while validation fails
// or the dialog is not in a submittable state.
var ErrBlocked = errors.New("intake: submission blocked")

// Validation messages, keyed by field in FieldErrors.
const (
	msgNoteRequired   = "Describe the problem when reporting something else."
	msgPowerRequired  = "Tell us whether nearby buildings have power."
	msgHazardRequired = "Tell us whether the light poses an immediate hazard."
	msgHazardBlocked  = "Do not file this as a report — call the utility's emergency line."
)

// FieldErrors maps a field name to its user-visible validation message.
type FieldErrors map[string]string

// Form is the report-submission dialog state machine.
type Form struct {
	state       DialogState
	reportType  string
	note        string
	areaPowerOn Answer
	hazard      Answer
}

// NewForm creates a closed form with the default report type.
func NewForm() *Form {
	return &Form{reportType: model.ReportOut}
}

// Open moves the dialog to editing and clears the two safety questions.
// Previous answers never survive a reopen.
func (f *Form) Open() {
	f.state = StateEditing
	f.areaPowerOn = AnswerUnset
	f.hazard = AnswerUnset
}

// Close dismisses the dialog.
func (f *Form) Close() {
	f.state = StateClosed
}

// State returns the current dialog state.
func (f *Form) State() DialogState { return f.state }

// SetReportType selects the incident type. Legacy aliases are folded
// into their canonical keys.
func (f *Form) SetReportType(t string) {
	f.reportType = model.CanonicalReportType(t)
}

// SetNote sets the free-text description.
func (f *Form) SetNote(note string) {
	f.note = note
}

// SetAreaPowerOn answers the area-power question. Any previously chosen
// hazard answer is reset so it cannot survive a changed power answer.
func (f *Form) SetAreaPowerOn(a Answer) {
	f.areaPowerOn = a
	if a != AnswerUnset {
		f.hazard = AnswerUnset
	}
}

// SetHazard answers the hazard question.
func (f *Form) SetHazard(a Answer) {
	f.hazard = a
}

// Validate returns the field-level problems blocking submission, or nil
// when the form is submittable.
func (f *Form) Validate() FieldErrors {
	errs := FieldErrors{}
	if f.reportType == model.ReportOther && strings.TrimSpace(f.note) == "" {
		errs["note"] = msgNoteRequired
	}
	if f.areaPowerOn == AnswerUnset {
		errs["area_power_on"] = msgPowerRequired
	}
	// The hazard question only applies when the area has power.
	if f.areaPowerOn == AnswerYes && f.hazard == AnswerUnset {
		errs["hazard"] = msgHazardRequired
	}
	if f.hazard == AnswerYes {
		errs["hazard"] = msgHazardBlocked
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CanSubmit reports whether the submit action should be offered: the
// dialog is in editing (not mid-save), and validation passes.
func (f *Form) CanSubmit() bool {
	return f.state == StateEditing && f.Validate() == nil
}

// Submit runs the guarded Editing → Submitting → Closed transition,
// filing the report through the submitter. A failed submission returns
// the dialog to editing with the answers intact.
func (f *Form) Submit(ctx context.Context, submitter Submitter, lightID string) error {
	if !f.CanSubmit() {
		return ErrBlocked
	}
	f.state = StateSubmitting

	err := submitter.SubmitReport(ctx, NewReport{
		LightID:     lightID,
		ReportType:  f.reportType,
		Note:        strings.TrimSpace(f.note),
		AreaPowerOn: answerString(f.areaPowerOn),
		Hazard:      answerString(f.hazard),
	})
	if err != nil {
		f.state = StateEditing
		return err
	}
	f.state = StateClosed
	return nil
}

func answerString(a Answer) string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	default:
		return ""
	}
}
