package notify

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSNotifier sends moderation alerts through Twilio. A nil notifier is valid
// and sends nothing, so callers never have to check whether SMS is configured.
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewSMSNotifier returns nil unless all credentials and numbers are set.
func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	if accountSID == "" || authToken == "" || from == "" || to == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &SMSNotifier{client: client, from: from, to: to}
}

// ReportFiled alerts the moderator that a new report came in.
func (n *SMSNotifier) ReportFiled(postID int, reporterEmail string) error {
	if n == nil {
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(fmt.Sprintf("echoverse: new report on post %d filed by %s", postID, reporterEmail))

	_, err := n.client.Api.CreateMessage(params)
	return err
}
