package razorpay

// Config represents the configuration for the Razorpay client.
type Config struct {
	// KeyID is the public API key, also handed to the client-side widget.
	KeyID string

	// KeySecret signs API requests and payment signatures. Never leaves the server.
	KeySecret string

	// BaseURL is the Razorpay REST API base URL.
	BaseURL string

	// Currency is the ISO currency code orders are created in.
	Currency string
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.KeyID == "" {
		return ErrInvalidRequest
	}
	if c.KeySecret == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.Currency == "" {
		return ErrInvalidRequest
	}
	return nil
}
