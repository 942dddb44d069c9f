package notification

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestNoopNotifier_LogsAndSucceeds(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	err := NewNoopNotifier(log).Send(context.Background(), Message{Token: "tok", Title: "Payment received"})
	assert.NoError(t, err)
	if assert.Len(t, hook.Entries, 1) {
		assert.Equal(t, "Payment received", hook.LastEntry().Data["title"])
	}
}
