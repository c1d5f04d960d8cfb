package providers

// Level is the severity of a user-visible notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notifier shows transient user-visible notices (toasts/alerts)
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(level Level, message string)

// Notify implements Notifier
func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}
