package booking

import (
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStage(t *testing.T) {
	tests := []struct {
		from   FormStage
		action FormAction
		want   FormStage
	}{
		{FormStageForm, FormActionCodeSent, FormStageVerification},
		{FormStageVerification, FormActionCodeSent, FormStageVerification},
		{FormStageVerification, FormActionCodeVerified, FormStageForm},
		{FormStageVerification, FormActionBack, FormStageForm},
		{FormStageForm, FormActionSubmitted, FormStageSuccess},
		{FormStageSuccess, FormActionReset, FormStageForm},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := NextStage(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStage_Invalid(t *testing.T) {
	got, err := NextStage(FormStageSuccess, FormActionSubmitted)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, FormStageSuccess, got)

	_, err = NextStage(FormStageVerification, FormActionSubmitted)
	assert.Error(t, err)
}

func TestFormStage_IsValid(t *testing.T) {
	assert.True(t, FormStageForm.IsValid())
	assert.True(t, FormStageVerification.IsValid())
	assert.True(t, FormStageSuccess.IsValid())
	assert.False(t, FormStage("done").IsValid())
}
