package core

// Logger is implemented by the app loggers.
// args may hold errors, maps of extra data and a Requester.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Requester identifies whoever issued the current request.
type Requester struct {
	Code  string
	Name  string
	Staff bool
}

func (r Requester) IsZero() bool { return r.Code == "" && r.Name == "" }
