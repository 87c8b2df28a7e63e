package booking

import "github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"

// FormStage is the step of the customer booking form.
// Responses of the public endpoints carry the stage the client should render next.
type FormStage string

const (
	FormStageForm         FormStage = "form"
	FormStageVerification FormStage = "verification"
	FormStageSuccess      FormStage = "success"
)

// FormAction is what moves the form from one stage to the next
type FormAction string

const (
	FormActionCodeSent     FormAction = "code_sent"
	FormActionCodeVerified FormAction = "code_verified"
	FormActionBack         FormAction = "back"
	FormActionSubmitted    FormAction = "submitted"
	FormActionReset        FormAction = "reset"
)

type stageTransition struct {
	from   FormStage
	action FormAction
}

var formTransitions = map[stageTransition]FormStage{
	{FormStageForm, FormActionCodeSent}:             FormStageVerification,
	{FormStageVerification, FormActionCodeSent}:     FormStageVerification,
	{FormStageVerification, FormActionCodeVerified}: FormStageForm,
	{FormStageVerification, FormActionBack}:         FormStageForm,
	{FormStageForm, FormActionSubmitted}:            FormStageSuccess,
	{FormStageSuccess, FormActionReset}:             FormStageForm,
}

// IsValid checks if the stage is a known value
func (s FormStage) IsValid() bool {
	return s == FormStageForm || s == FormStageVerification || s == FormStageSuccess
}

// NextStage returns the stage reached from current by action
func NextStage(current FormStage, action FormAction) (FormStage, error) {
	next, ok := formTransitions[stageTransition{current, action}]
	if !ok {
		return current, shared.NewDomainError("INVALID_STATE",
			"Cannot "+string(action)+" while in "+string(current)+" stage")
	}
	return next, nil
}
