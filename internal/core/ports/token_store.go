package ports

// TokenStore is the single durable slot for the bearer token. At most
// one token is held at a time; Set overwrites unconditionally. The
// store has no expiry logic: callers infer invalidity only from
// request outcomes.
type TokenStore interface {
	Set(token string) error
	Get() (token string, ok bool)
	Clear() error
}
