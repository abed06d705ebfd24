package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Static company info rarely changes
	TTLProfile = 30 * 24 * time.Hour

	// Annual statements update with filings
	TTLStatements = 45 * 24 * time.Hour

	// Short-lived data
	TTLFxQuote = time.Hour        // Currency exchange rates
	TTLQuote   = 10 * time.Minute // Current price cache
)
