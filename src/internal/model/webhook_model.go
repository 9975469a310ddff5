package model

// GatewayWebhookRequest is the processor-defined webhook payload. The
// challenge is a shared secret configured out of band; the payload is not
// trusted until it matches.
type GatewayWebhookRequest struct {
	InvoiceID    string `json:"invoice_id"`
	TrackingID   string `json:"tracking_id"`
	State        string `json:"state"`
	APIRef       string `json:"api_ref"`
	Challenge    string `json:"challenge"`
	Value        string `json:"value"`
	FailedReason string `json:"failed_reason"`
	FailedCode   string `json:"failed_code"`
}

func (r *GatewayWebhookRequest) Reference() string {
	if r.TrackingID != "" {
		return r.TrackingID
	}
	return r.InvoiceID
}

type WebhookAck struct {
	Received bool `json:"received"`
}
