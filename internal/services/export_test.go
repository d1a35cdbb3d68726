package services

import "time"

// SetSessionClock replaces the store clock used for idle tracking
func SetSessionClock(store SessionStoreInterface, now func() time.Time) {
	store.(*sessionStore).now = now
}

// SetBreakerClock replaces the clock the breaker measures its reset timeout with
func SetBreakerClock(cb *CircuitBreaker, now func() time.Time) {
	cb.now = now
}
