package core

// Logger is the minimal leveled logger the rest of the module depends on.
// expected args: error, map[string]interface{}, session.Session
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
