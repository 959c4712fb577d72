// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package envflag provides a wrapper around the standard flag package, allowing
// flags to be overridden by environment variables.
package envflag

import (
	"flag"
	"fmt"
	"strconv"
)

// Type is a constraint that permits only types supported by envflag package.
type Type interface {
	int | int64 | float64 | bool | string
}

// Value sets up a flag with the given name, default value, and usage
// information on fs, and associates it with the environment variable envName.
//
// The environment is consulted only when [Apply] is called, so that the
// environment of the running application, not the one of the process, is
// used.
func Value[T Type](fs *flag.FlagSet, name, envName string, value T, usage string) *T {
	result := value
	usage += " Can be overridden by " + envName + " environment variable."
	fs.Var(&flagValue[T]{value: &result, env: envName}, name, usage)
	return &result
}

// Explicit returns the names of flags that were set on the command line.
// It must be called after parsing and before [Apply].
func Explicit(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// Apply sets every flag defined by [Value] that is not in skip from its
// environment variable, if the variable is non-empty.
func Apply(fs *flag.FlagSet, getenv func(string) string, skip map[string]bool) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil || skip[f.Name] {
			return
		}
		ev, ok := f.Value.(envVar)
		if !ok {
			return
		}
		s := getenv(ev.envName())
		if s == "" {
			return
		}
		if serr := fs.Set(f.Name, s); serr != nil {
			err = fmt.Errorf("invalid value %q for %s environment variable: %w", s, ev.envName(), serr)
		}
	})
	return err
}

type envVar interface {
	envName() string
}

type flagValue[T Type] struct {
	value *T
	env   string
}

func (f *flagValue[T]) envName() string { return f.env }

func (f *flagValue[T]) IsBoolFlag() bool {
	_, ok := any(f.value).(*bool)
	return ok
}

func (f *flagValue[T]) String() string {
	if f.value == nil {
		return ""
	}
	switch v := any(*f.value).(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	}
	return ""
}

func (f *flagValue[T]) Set(s string) error {
	switch p := any(f.value).(type) {
	case *int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*p = v
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*p = v
	case *string:
		*p = s
	}
	return nil
}
