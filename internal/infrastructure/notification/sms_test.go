package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSMSSender(t *testing.T) {
	s, err := NewSMSSender(config.SMSConfig{Provider: "log"}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, s.DevMode())

	_, err = NewSMSSender(config.SMSConfig{Provider: "twilio"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSMSSender(config.SMSConfig{Provider: "carrier-pigeon"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported sms provider")
}

func TestLogSMSSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSMSSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), "+48123456789", "Your code: 123456"))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "+48******789", fields["phone"])
	assert.Equal(t, "Your code: 123456", fields["body"])
}

func TestTwilioSMSSender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("To") == "+48000000000" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
			return
		}
		assert.Equal(t, "+15005550006", r.PostForm.Get("From"))
		assert.Equal(t, "code 1234", r.PostForm.Get("Body"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	s, err := NewTwilioSMSSender(config.SMSConfig{
		TwilioAccountSID: "AC123",
		TwilioAuthToken:  "secret",
		TwilioFromNumber: "+15005550006",
		TwilioBaseURL:    srv.URL,
	})
	require.NoError(t, err)
	assert.False(t, s.DevMode())

	require.NoError(t, s.Send(context.Background(), "+48123456789", "code 1234"))

	err = s.Send(context.Background(), "+48000000000", "code 1234")
	require.ErrorIs(t, err, ErrSMSRequestFailed)
	assert.Contains(t, err.Error(), "Invalid 'To' Phone Number")
}
