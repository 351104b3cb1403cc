package file

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Type is the type name for the path flag.
// It represents a flag that holds a file path, such as a world manifest.
const Type = "path"

// Flag defines a path flag that remembers whether the value is an existing file.
// Missing files are only reported when the flag is opened.
type Flag struct {
	path *string
	fs.FileInfo
}

func (f *Flag) String() string {
	if f.path == nil {
		return ""
	}
	return *f.path
}

func (f *Flag) Exists() bool {
	return f.FileInfo != nil
}

// IsSet reports whether a non-empty path was given.
func (f *Flag) IsSet() bool {
	return f.String() != ""
}

func (f *Flag) Open() (io.ReadCloser, error) {
	switch {
	case !f.Exists():
		return nil, fmt.Errorf("file %q does not exist", f.String())
	case f.IsDir():
		return nil, fmt.Errorf("path %q is a directory, expected a file", f.String())
	}
	return os.Open(*f.path)
}

func (f *Flag) Set(s string) error {
	if f.path == nil {
		f.path = new(string)
	}
	*f.path = s
	f.FileInfo = nil
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to stat path %q: %w", *f.path, err)
	}
	f.FileInfo = info
	return nil
}

func (f *Flag) Type() string {
	return Type
}

func Var(f *pflag.FlagSet, name string, value string, usage string) {
	actual := strings.Clone(value)
	flag := &Flag{}
	_ = flag.Set(actual) // Set with the default value
	f.Var(flag, name, usage)
}

func VarP(f *pflag.FlagSet, name, shorthand string, value string, usage string) {
	actual := strings.Clone(value)
	flag := &Flag{}
	_ = flag.Set(actual) // Set with the default value
	f.VarP(flag, name, shorthand, usage)
}

func Get(f *pflag.FlagSet, name string) (*Flag, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return nil, fmt.Errorf("flag accessed but not defined: %s", name)
	}

	if flag.Value.Type() != Type {
		return nil, fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}

	val, ok := flag.Value.(*Flag)
	if !ok {
		return nil, fmt.Errorf("flag %s is not of type %s", name, Type)
	}
	return val, nil
}
