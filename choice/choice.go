// Package choice holds fixed sets of allowed string values, like the media
// types and countries the catalog accepts.
package choice

import (
	"fmt"
	"strings"
)

func New(options ...string) *Set {
	set := &Set{
		order:   options,
		options: make(map[string]struct{}, len(options)),
	}
	for _, opt := range options {
		set.options[opt] = struct{}{}
	}
	return set
}

type Set struct {
	order   []string
	options map[string]struct{}
}

func (s *Set) Has(value string) bool {
	_, has := s.options[value]
	return has
}

// Options returns the allowed values in the order they were given.
func (s *Set) Options() []string {
	return append([]string(nil), s.order...)
}

func (s *Set) String() string {
	return strings.Join(s.order, ", ")
}

// Flag returns a flag.Value (and cli.Generic) that only accepts values from
// the set, starting out at def.
func (s *Set) Flag(def string) *Flag {
	return &Flag{set: s, value: def}
}

type Flag struct {
	set   *Set
	value string
}

func (f *Flag) Value() string {
	return f.value
}

func (f *Flag) String() string {
	return f.value
}

func (f *Flag) Set(value string) error {
	value = strings.TrimSpace(value)
	if !f.set.Has(value) {
		return fmt.Errorf("unsupported value '%s' (want one of %s)", value, f.set)
	}
	f.value = value
	return nil
}
