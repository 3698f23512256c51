package cli

import (
	"errors"
	"fmt"

	"formbuddy/internal/store"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Reported tells main whether err was already printed by a command.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

type flagError struct {
	flag   string
	reason string
}

func (e flagError) Error() string {
	return fmt.Sprintf("invalid --%s: %s", e.flag, e.reason)
}

func errFlag(flag string, err error) error {
	return flagError{flag: flag, reason: err.Error()}
}

func errTaskNotFound(id string) error {
	return store.NotFoundError{Kind: "task", ID: id}
}
