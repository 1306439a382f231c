package alert

// Alerter is a best-effort failure channel. Implementations log their
// own delivery problems and never surface them to the caller; a broken
// alert channel must not take the scheduler down with it.
type Alerter interface {
	Notify(message string)
}

// Nop discards every alert. Used when no alert channel is configured.
type Nop struct{}

func (Nop) Notify(string) {}
