package types

import "fmt"

// Direction identifies a translation direction between the two supported
// languages.
type Direction string

const (
	// DirectionENUR translates English into Urdu.
	DirectionENUR Direction = "en-ur"
	// DirectionUREN translates Urdu into English.
	DirectionUREN Direction = "ur-en"
)

// ParseDirection parses a direction string as sent by API clients.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionENUR, DirectionUREN:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown translation direction %q", s)
}

// DirectionFromLangs derives a direction from two-letter language codes.
func DirectionFromLangs(source, target string) (Direction, error) {
	switch {
	case source == "en" && target == "ur":
		return DirectionENUR, nil
	case source == "ur" && target == "en":
		return DirectionUREN, nil
	}
	return "", fmt.Errorf("unsupported language pair %s -> %s", source, target)
}

// SourceLang returns the two-letter source language code.
func (d Direction) SourceLang() string {
	if d == DirectionUREN {
		return "ur"
	}
	return "en"
}

// TargetLang returns the two-letter target language code.
func (d Direction) TargetLang() string {
	if d == DirectionUREN {
		return "en"
	}
	return "ur"
}

// SourceName returns the human-readable source language name, used when
// building prompts.
func (d Direction) SourceName() string {
	if d == DirectionUREN {
		return "Urdu"
	}
	return "English"
}

// TargetName returns the human-readable target language name.
func (d Direction) TargetName() string {
	if d == DirectionUREN {
		return "English"
	}
	return "Urdu"
}

// Valid reports whether the direction is one of the supported values.
func (d Direction) Valid() bool {
	return d == DirectionENUR || d == DirectionUREN
}
