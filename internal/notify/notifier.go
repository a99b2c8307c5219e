package notify

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"design_portal/internal/models"
	"design_portal/internal/status"
)

// Notifier informs the customer about notable lifecycle milestones. Sending
// is best-effort: a failure is logged and never blocks a transition.
type Notifier interface {
	OrderStatusChanged(order *models.ServiceOrder)
	ComplaintStatusChanged(complaint *models.Complaint)
}

type smsNotifier struct {
	client *twilio.RestClient
	from   string
}

// NewSMSNotifier builds the Twilio-backed notifier. With empty credentials
// it degrades to a no-op so local development needs no Twilio account.
func NewSMSNotifier(accountSID, authToken, from string) Notifier {
	if accountSID == "" || authToken == "" || from == "" {
		log.Println("Twilio credentials not configured, SMS notifications disabled")
		return NewNoopNotifier()
	}
	return &smsNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

// notifiableOrderStatuses are the milestones worth a customer SMS.
var notifiableOrderStatuses = map[status.OrderStatus]bool{
	status.OrderDeliveredSuccessfully: true,
	status.OrderCompleteOrder:         true,
	status.OrderCancelled:             true,
}

var notifiableComplaintStatuses = map[status.ComplaintStatus]bool{
	status.ComplaintRefunded:  true,
	status.ComplaintDelivered: true,
	status.ComplaintRejected:  true,
	status.ComplaintComplete:  true,
}

func (n *smsNotifier) OrderStatusChanged(order *models.ServiceOrder) {
	if !notifiableOrderStatuses[order.Status] || order.Customer.PhoneNumber == "" {
		return
	}
	body := fmt.Sprintf("Đơn hàng %s: %s", order.PublicID, order.Status.Label())
	n.send(order.Customer.PhoneNumber, body)
}

func (n *smsNotifier) ComplaintStatusChanged(complaint *models.Complaint) {
	if !notifiableComplaintStatuses[complaint.Status] || complaint.Order.Customer.PhoneNumber == "" {
		return
	}
	body := fmt.Sprintf("Khiếu nại %s: %s", complaint.PublicID, complaint.Status.Label())
	n.send(complaint.Order.Customer.PhoneNumber, body)
}

func (n *smsNotifier) send(to, body string) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send SMS to %s: %v", to, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("SMS sent to %s, SID: %s", to, *resp.Sid)
	}
}

type noopNotifier struct{}

// NewNoopNotifier returns a notifier that does nothing. Used in tests and
// when Twilio is not configured.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) OrderStatusChanged(*models.ServiceOrder)  {}
func (noopNotifier) ComplaintStatusChanged(*models.Complaint) {}
