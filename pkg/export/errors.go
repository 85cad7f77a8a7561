package export

import (
	"errors"
	"fmt"
)

// ErrExportFailed matches every *Failure.
var ErrExportFailed = errors.New("export: failed")

// UserMessage is the generic text shown when an export fails.
const UserMessage = "Erro ao gerar PDF. Tente novamente."

// Failure describes a failed export. No file is left behind and the export
// can be retried with a fresh snapshot.
type Failure struct {
	ID    string
	Stage string
	Err   error
}

func (f *Failure) Error() string {
	if f == nil {
		return ErrExportFailed.Error()
	}
	if f.Err == nil {
		return fmt.Sprintf("export: %s failed", f.Stage)
	}
	return fmt.Sprintf("export: %s: %v", f.Stage, f.Err)
}

// Unwrap exposes the underlying cause.
func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// Is reports ErrExportFailed equivalence.
func (f *Failure) Is(target error) bool {
	return target == ErrExportFailed
}

// Message returns the user-facing text.
func (f *Failure) Message() string {
	return UserMessage
}
