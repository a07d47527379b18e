package common

import (
	"deskly/src/models"
	"deskly/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) Name() string { return "fake" }

func (n *fakeNotifier) Send(user *models.User, subject, body string) error {
	n.sent = append(n.sent, body)
	return nil
}

func TestNotificationSubjects(t *testing.T) {
	assert.Equal(t, "An office is pending approval", notificationSubject(types.NOTIFY_OFFICE_PENDING_APPROVAL))
	assert.Equal(t, "Your reservation has been confirmed", notificationSubject(types.NOTIFY_NEW_USER_RESERVATION))
	assert.Equal(t, "New reservation on your office", notificationSubject(types.NOTIFY_NEW_HOST_RESERVATION))
	assert.Equal(t, "Your reservation starts today", notificationSubject(types.NOTIFY_USER_RESERVATION_STARTING))
	assert.Equal(t, "A reservation on your office starts today", notificationSubject(types.NOTIFY_HOST_RESERVATION_STARTING))
	assert.Equal(t, "something_else", notificationSubject(types.NotificationKind("something_else")))
}

func TestNewNotifierInstallsBackend(t *testing.T) {
	fake := &fakeNotifier{}
	NewNotifier(fake)
	defer NewNotifier(nil)

	n := GetNotifier()
	assert.Equal(t, "fake", n.Name())
	assert.NoError(t, n.Send(&models.User{Email: "someone@example.com"}, "subject", "body"))
	assert.Equal(t, []string{"body"}, fake.sent)
}
