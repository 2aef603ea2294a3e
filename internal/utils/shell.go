package utils

import (
	"errors"

	"github.com/kballard/go-shellquote"
)

var ErrEmptyLine = errors.New("empty command")

// SplitStringIntoCommandAndArguments splits a shell line into its command and
// arguments, honouring quotes and backslash escapes.
func SplitStringIntoCommandAndArguments(line string) (string, []string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", nil, err
	}
	if len(words) == 0 {
		return "", nil, ErrEmptyLine
	}

	return words[0], words[1:], nil
}
