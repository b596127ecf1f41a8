package registry

import (
	"errors"
	"fmt"

	"github.com/RMahshie/gatescope/internal/network"
)

// Selection names one parameter of one loaded file.
type Selection struct {
	FileID    string
	Parameter string
}

func (s Selection) String() string {
	return fmt.Sprintf("%s/%s", s.FileID, s.Parameter)
}

// SelectionError reports the selection that stopped a batch. It matches
// ErrNotFound for every cause, and also ErrUnsupportedParameter when the file
// exists but the parameter does not.
type SelectionError struct {
	Selection Selection
	Err       error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Selection)
}

func (e *SelectionError) Unwrap() []error {
	if errors.Is(e.Err, ErrNotFound) {
		return []error{e.Err}
	}
	return []error{e.Err, ErrNotFound}
}

// Resolve looks up every selection and returns the responses in request
// order. The first selection that cannot be resolved fails the whole batch.
func Resolve(store Store, selections []Selection) ([]network.Response, error) {
	if len(selections) == 0 {
		return nil, ErrNoSelections
	}

	out := make([]network.Response, 0, len(selections))
	for _, sel := range selections {
		entry, ok := store.Get(sel.FileID)
		if !ok {
			return nil, &SelectionError{Selection: sel, Err: ErrNotFound}
		}

		p, err := network.ParseParameter(sel.Parameter)
		if err != nil {
			return nil, &SelectionError{Selection: sel, Err: ErrUnsupportedParameter}
		}

		resp, err := entry.Network.Response(p)
		if err != nil {
			return nil, &SelectionError{Selection: sel, Err: ErrUnsupportedParameter}
		}
		resp.FileID = entry.FileID

		out = append(out, resp)
	}

	return out, nil
}
