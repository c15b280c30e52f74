package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSource is returned for a source selector that names no known kind.
var ErrInvalidSource = errors.New("invalid source")

type SourceKind string

const (
	SourceStore SourceKind = "store"
	SourceCSV   SourceKind = "csv"
)

// Source selects the snapshot a report is computed over: the relational store
// or a CSV upload identified by the key the upload returned.
type Source struct {
	Kind SourceKind
	Key  string
}

// StoreSource is the default source.
var StoreSource = Source{Kind: SourceStore}

// ParseSource accepts "", "store" or "csv:<digest>".
func ParseSource(s string) (Source, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == string(SourceStore):
		return StoreSource, nil
	case strings.HasPrefix(s, string(SourceCSV)+":") && len(s) > len(SourceCSV)+1:
		return Source{Kind: SourceCSV, Key: s}, nil
	}
	return Source{}, fmt.Errorf("%w: %q", ErrInvalidSource, s)
}

func (s Source) String() string {
	if s.Kind == SourceCSV {
		return s.Key
	}
	return string(SourceStore)
}
