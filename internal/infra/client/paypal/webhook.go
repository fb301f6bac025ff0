package paypal

import "encoding/json"

// WebhookEvent is the provider-pushed event envelope, decoded only as far as
// reconciliation needs. The verbatim body is persisted separately for audit.
type WebhookEvent struct {
	ID           string          `json:"id"`
	EventType    string          `json:"event_type"`
	ResourceType string          `json:"resource_type"`
	CreateTime   string          `json:"create_time"`
	Resource     WebhookResource `json:"resource"`
}

type WebhookResource struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	CustomID          string `json:"custom_id"`
	Amount            Amount `json:"amount"`
	Links             []Link `json:"links"`
	SupplementaryData struct {
		RelatedIDs struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data"`
}

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (e *WebhookEvent) ReceiptURL() string {
	for _, l := range e.Resource.Links {
		if l.Rel == "self" {
			return l.Href
		}
	}
	return ""
}
