package events

type SendMail struct {
	UserID  string
	Subject string
	Data    interface{}
}

func (e SendMail) GetType() string {
	return "SendMail"
}
