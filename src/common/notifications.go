package common

import (
	"deskly/src/db"
	"deskly/src/lib"
	awslib "deskly/src/lib/aws"
	"deskly/src/models"
	"deskly/src/types"
	"deskly/src/utils"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier delivers a notification to one user. Delivery failures are the
// caller's to log; they never propagate into the mutation that fired them.
type Notifier interface {
	Name() string
	Send(user *models.User, subject, body string) error
}

type MailNotifier struct{}

func (n *MailNotifier) Name() string { return "SMTP" }

func (n *MailNotifier) Send(user *models.User, subject, body string) error {
	from := os.Getenv("MAIL_FROM")
	return lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: "Deskly",
		To:       []string{user.Email},
		Subject:  subject,
		Body:     body,
	})
}

type SESNotifier struct{}

func (n *SESNotifier) Name() string { return "SES" }

func (n *SESNotifier) Send(user *models.User, subject, body string) error {
	from := os.Getenv("MAIL_FROM")
	return awslib.SESSendMessage(
		aws.String(from),
		&sestypes.Destination{ToAddresses: []string{user.Email}},
		&sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body:    &sestypes.Body{Text: &sestypes.Content{Data: aws.String(body)}},
		},
	)
}

var notifier Notifier

// GetNotifier picks the mail backend from the environment, SES in production
// and plain SMTP otherwise.
func GetNotifier() Notifier {
	if notifier != nil {
		return notifier
	}
	if os.Getenv("API_ENV") == "production" {
		notifier = &SESNotifier{}
	} else {
		notifier = &MailNotifier{}
	}
	return notifier
}

// NewNotifier replaces the shared backend, used by tests.
func NewNotifier(n Notifier) Notifier {
	notifier = n
	return notifier
}

func notificationSubject(kind types.NotificationKind) string {
	switch kind {
	case types.NOTIFY_OFFICE_PENDING_APPROVAL:
		return "An office is pending approval"
	case types.NOTIFY_NEW_USER_RESERVATION:
		return "Your reservation has been confirmed"
	case types.NOTIFY_NEW_HOST_RESERVATION:
		return "New reservation on your office"
	case types.NOTIFY_USER_RESERVATION_STARTING:
		return "Your reservation starts today"
	case types.NOTIFY_HOST_RESERVATION_STARTING:
		return "A reservation on your office starts today"
	}
	return string(kind)
}

// Dispatch records and delivers a notification without blocking the caller.
// Errors are logged and swallowed.
func Dispatch(user *models.User, kind types.NotificationKind, payload types.JSONB) {
	go func() {
		d := db.GetDb()
		record := models.Notification{
			UserID:  user.ID,
			Kind:    kind,
			Payload: &payload,
		}
		if err := d.Create(&record).Error; err != nil {
			log.Printf("Error recording notification [%s] for user %d: %s\n", kind, user.ID, err.Error())
		}
		n := GetNotifier()
		subject := notificationSubject(kind)
		body := subject
		if officeTitle, ok := payload["office_title"].(string); ok {
			body = fmt.Sprintf("%s: %s", subject, officeTitle)
		}
		if err := n.Send(user, subject, body); err != nil {
			log.Printf("[%s] Error delivering notification [%s] to %s: %s\n", n.Name(), kind, user.Email, err.Error())
		}
	}()
}

// NotifyAdmins fans a notification out to every admin user.
func NotifyAdmins(kind types.NotificationKind, payload types.JSONB) {
	admins, err := utils.FindAdmins()
	if err != nil {
		log.Printf("Error looking up admins: %s\n", err.Error())
		return
	}
	for i := range admins {
		Dispatch(&admins[i], kind, payload)
	}
}
