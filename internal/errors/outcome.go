package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/session"
	"github.com/ikkim/storefront-account/pkg/logger"
	"gorm.io/gorm"
)

// Kind classifies how a request ended.
type Kind int

const (
	Success Kind = iota
	NotFound
	ValidationFailure
	PersistenceFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NotFound:
		return "not_found"
	case ValidationFailure:
		return "validation_failure"
	case PersistenceFailure:
		return "persistence_failure"
	}
	return "unknown"
}

// Outcome is the result every account route reports. Message is shown to
// the user; Cause is only logged.
type Outcome struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func OK(message string) Outcome {
	return Outcome{Kind: Success, Message: message}
}

func Missing(code, message string) Outcome {
	return Outcome{Kind: NotFound, Code: code, Message: message}
}

func Invalid(code, message string) Outcome {
	return Outcome{Kind: ValidationFailure, Code: code, Message: message}
}

func Failed(cause error, context string) Outcome {
	info := ParseError(cause, context)
	return Outcome{Kind: PersistenceFailure, Code: info.Code, Message: info.Message, Cause: cause}
}

// FromError turns a repository error into an outcome: a missing row is
// NotFound, anything else a persistence failure.
func FromError(err error, context string) Outcome {
	if err == nil {
		return OK("")
	}
	info := ParseError(err, context)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Outcome{Kind: NotFound, Code: info.Code, Message: info.Message, Cause: err}
	}
	return Outcome{Kind: PersistenceFailure, Code: info.Code, Message: info.Message, Cause: err}
}

func (o Outcome) IsSuccess() bool {
	return o.Kind == Success
}

func (o Outcome) FlashKind() session.FlashKind {
	switch o.Kind {
	case Success:
		return session.FlashSuccess
	case NotFound, ValidationFailure:
		return session.FlashWarning
	}
	return session.FlashError
}

// Log writes the outcome at a level matching its kind.
func (o Outcome) Log(log *logger.Logger, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["outcome"] = o.Kind.String()
	if o.Code != "" {
		fields["code"] = o.Code
	}

	switch o.Kind {
	case Success:
		log.Info("Request succeeded", fields)
	case PersistenceFailure:
		log.Error("Request failed to persist", o.Cause, fields)
	default:
		if o.Cause != nil {
			fields["error"] = o.Cause.Error()
		}
		log.Warn("Request rejected", fields)
	}
}

// Respond logs the outcome, queues its message as a flash, commits the
// session and redirects with 303 See Other.
func Respond(c *gin.Context, o Outcome, redirectTo string, fields map[string]interface{}) {
	log := requestLogger(c)
	o.Log(log, fields)

	if o.Message != "" {
		session.From(c).AddFlash(o.FlashKind(), o.Message)
	}
	if err := session.Commit(c); err != nil {
		log.Warn("Session not saved, flash dropped", map[string]interface{}{
			"route": c.FullPath(),
			"flash": o.Message,
			"error": err.Error(),
		})
	}
	c.Redirect(http.StatusSeeOther, redirectTo)
}

func requestLogger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
