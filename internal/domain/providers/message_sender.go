package providers

// MessageSender delivers out-of-band notifications to a patient's phone.
type MessageSender interface {
	// SendText sends a free-form text message and returns the provider's
	// message ID.
	SendText(to, body string) (string, error)
}
