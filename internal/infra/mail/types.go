package mail

type MailType string

const (
	RequestReceived  MailType = "RequestReceived"
	PaymentConfirmed MailType = "PaymentConfirmed"
)

type MailData interface {
	GetMailType() MailType
	GetSubject() string
}

type RequestReceivedData struct {
	CustomerFirstName string
	BusinessName      string
	Year              string
}

func (s RequestReceivedData) GetMailType() MailType {
	return RequestReceived
}

func (s RequestReceivedData) GetSubject() string {
	return "We received your website request!"
}

type PaymentConfirmedData struct {
	CustomerFirstName string
	PlanName          string
	Amount            string
	ReceiptURL        string
	Year              string
}

func (s PaymentConfirmedData) GetMailType() MailType {
	return PaymentConfirmed
}

func (s PaymentConfirmedData) GetSubject() string {
	return "Payment confirmation"
}
