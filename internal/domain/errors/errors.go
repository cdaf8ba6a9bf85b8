package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid")

var (
	ErrNoInput     = errors.New("no markdown files found")
	ErrNoDocuments = errors.New("no posts could be processed successfully")
)

// Stage names the per-document step that failed.
type Stage string

const (
	StageRead        Stage = "read"
	StageFrontMatter Stage = "frontmatter"
)

// DocumentError is fatal for one input file only. The run skips the file
// and carries on with the next one.
type DocumentError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}
