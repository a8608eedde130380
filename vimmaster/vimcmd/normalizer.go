package vimcmd

import "strings"

// Long-form to short-form command aliases. Replacement is plain substring
// substitution, not tokenized: ":substitute/a/b/" and ":s/a/b/" normalize
// to the same string. Quest content relies on this exact behavior.
var aliases = [][2]string{
	{"substitute", "s"},
	{"global", "g"},
	{"write", "w"},
	{"quit", "q"},
}

// Matches reports whether the submitted command is equivalent to the
// quest's reference command, tolerating long-form/short-form aliasing.
func Matches(userInput, expected string) bool {
	userInput = strings.TrimSpace(userInput)
	expected = strings.TrimSpace(expected)

	if userInput == expected {
		return true
	}

	return Normalize(userInput) == Normalize(expected)
}

// Normalize rewrites long-form command names to their short forms.
func Normalize(command string) string {
	command = strings.TrimSpace(command)
	for _, alias := range aliases {
		command = strings.ReplaceAll(command, alias[0], alias[1])
	}
	return command
}
