package leadform

import (
	"errors"

	"github.com/bridgei2p/leadportal/internal/leadapi"
	"github.com/bridgei2p/leadportal/internal/leads"
)

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a transient message for the visitor.
type Notice struct {
	Level   Level
	Message string
}

// errorNotice turns err into the text the visitor sees. Backend detail wins
// over fallback; validation errors carry their own text.
func errorNotice(err error, fallback string) Notice {
	var verr *leads.ValidationError
	switch {
	case errors.As(err, &verr):
		return Notice{Level: LevelError, Message: verr.Message}
	case errors.Is(err, ErrBusy):
		return Notice{Level: LevelError, Message: "Please wait for the current request to finish"}
	case errors.Is(err, ErrEmailChanged):
		return Notice{Level: LevelError, Message: "Your email changed while we were working. Please try again."}
	}
	if fallback == "" {
		fallback = "Something went wrong. Please try again."
	}
	return Notice{Level: LevelError, Message: leadapi.Detail(err, fallback)}
}
