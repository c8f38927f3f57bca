package types

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	KindTransient Kind = iota
	KindBlocked
	KindRateLimited
	KindParse
	KindConfiguration
)

var (
	ErrTransient     = errors.New("transient fetch error")
	ErrBlocked       = errors.New("blocked by source")
	ErrRateLimited   = errors.New("rate limited by source")
	ErrParse         = errors.New("parse error")
	ErrConfiguration = errors.New("configuration error")
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindBlocked:
		return "blocked"
	case KindRateLimited:
		return "rate_limited"
	case KindParse:
		return "parse"
	case KindConfiguration:
		return "configuration"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Terminal kinds end all further requests to the source for the run.
func (k Kind) Terminal() bool { return k == KindBlocked || k == KindRateLimited }

func (k Kind) sentinel() error {
	switch k {
	case KindBlocked:
		return ErrBlocked
	case KindRateLimited:
		return ErrRateLimited
	case KindParse:
		return ErrParse
	case KindConfiguration:
		return ErrConfiguration
	}
	return ErrTransient
}

// ScrapeError carries the classification of a failed fetch or parse.
// errors.Is matches both its kind sentinel and the wrapped cause.
type ScrapeError struct {
	Kind     Kind
	Source   string
	URL      string
	Status   int
	Attempts int
	Err      error
}

func (e *ScrapeError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.URL != "" {
		msg += " url=" + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScrapeError) Unwrap() error { return e.Err }

func (e *ScrapeError) Is(target error) bool { return target == e.Kind.sentinel() }

// KindOf classifies err. Unclassified errors count as transient.
func KindOf(err error) Kind {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrBlocked):
		return KindBlocked
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	}
	return KindTransient
}

// IsCancellation reports a context error from the caller, which is never a
// source failure. A classified fetch timeout is not a cancellation.
func IsCancellation(err error) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// WithSource stamps the adapter name on a ScrapeError without rewrapping.
func WithSource(err error, source string) error {
	var se *ScrapeError
	if errors.As(err, &se) && se.Source == "" {
		se.Source = source
	}
	return err
}
