package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Errors groups the non-nil errors under "errors". It returns an empty Attr
// when every error is nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". Nil yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// FormID records the form session id under "form_id".
func FormID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("form_id", id)
}

// Field records a form field id under "field".
func Field(id string) slog.Attr {
	return slog.String("field", id)
}

// Fields records a list of field ids under "fields".
func Fields(ids ...string) slog.Attr {
	return slog.Any("fields", ids)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Reason records a validation failure code under "reason".
func Reason(code string) slog.Attr {
	return slog.String("reason", code)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
