package model

// ProviderType identifies one of the supported temporary-email services.
type ProviderType string

const (
	ProviderGuerrillaMail ProviderType = "guerrillamail"
	ProviderMailTM        ProviderType = "mail.tm"
	ProviderTempMailLol   ProviderType = "tempmail.lol"
	ProviderMailGW        ProviderType = "mail.gw"
	ProviderDropMail      ProviderType = "dropmail.me"
)

// Display mode constants for message rendering.
const (
	DisplayRich  = "rich"
	DisplayPlain = "plain"
)

// Message is the unified representation of one received email from any
// provider. Fields a provider does not report are left empty rather than
// inferred (tempmail.lol, for example, returns no date).
type Message struct {
	// ID is the provider-scoped dedup key: a provider-issued message id, or
	// a key derived from the message content when the provider issues none.
	ID string `json:"id"`

	// Provider identifies which service delivered this message.
	Provider ProviderType `json:"provider"`

	// Address is the disposable inbox address the message was sent to.
	Address string `json:"address"`

	// From is the sender as reported by the provider.
	From string `json:"from"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Date is the receive timestamp in the provider's native format.
	Date string `json:"date"`

	// Body is the message text.
	Body string `json:"body"`

	// Raw holds the original JSON payload from the provider.
	Raw string `json:"raw_data"`
}
