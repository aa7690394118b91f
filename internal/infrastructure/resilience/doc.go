/*
Package resilience provides a circuit breaker for calls to Home Assistant.

# Overview

A fetch run may page through several endpoints. When the instance is down
or rejecting the token, the breaker fails the remaining calls fast instead
of waiting out every retry.

# Usage

	breaker := resilience.New("hass", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	states, err := resilience.Do(breaker, func() ([]State, error) {
		return client.fetchStates(ctx)
	})

# States

	Closed --[threshold failures]-> Open --[cooldown]-> Half-Open --[success]-> Closed
	                                                       |
	                                                   [failure]
	                                                       v
	                                                      Open
*/
package resilience
