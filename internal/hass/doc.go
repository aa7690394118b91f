// Package hass reads entity states from the Home Assistant REST API and
// derives naming and location reports from them.
//
// Requests are rate limited, retried through go-retryablehttp on transient
// failures and guarded by a circuit breaker.
package hass
