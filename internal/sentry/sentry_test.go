package sentryutil

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrub(t *testing.T) {
	event := &sentry.Event{
		User: sentry.User{ID: "u1", IPAddress: "203.0.113.7"},
		Request: &sentry.Request{
			Data:    `{"business_number":"1234567890"}`,
			Cookies: "session=abc",
			Headers: map[string]string{"X-Admin-Key": "secret", "Cookie": "session=abc", "Accept": "application/json"},
		},
		Tags:  map[string]string{"handler": "analyze", "company_name": "한빛금속"},
		Extra: map[string]interface{}{"business_number": "1234567890", "eligible": 5},
	}

	out := scrub(event)
	require.NotNil(t, out)
	assert.Equal(t, sentry.User{}, out.User)
	assert.Empty(t, out.Request.Data)
	assert.Empty(t, out.Request.Cookies)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, out.Request.Headers)
	assert.Equal(t, map[string]string{"handler": "analyze"}, out.Tags)
	assert.Equal(t, map[string]interface{}{"eligible": 5}, out.Extra)
}

func TestScrub_NoRequest(t *testing.T) {
	out := scrub(&sentry.Event{Message: "catalog fault"})
	require.NotNil(t, out)
	assert.Nil(t, out.Request)
	assert.Equal(t, "catalog fault", out.Message)
}
