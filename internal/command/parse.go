// internal/command/parse.go
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseErrorKind classifies a rejected operator line.
type ParseErrorKind int

const (
	UnknownVerb ParseErrorKind = iota
	BadArgument
	ArgOutOfRange
)

// ParseError reports a malformed operator line. Recovered locally:
// the router turns it into a single ERR CMD response line.
type ParseError struct {
	Kind   ParseErrorKind
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Token)
}

// Parse tokenizes one operator line into a Command.
// Verb matching is case-sensitive and exact; an unknown verb is an
// error, never a silent no-op. Numeric arguments are parsed as
// integers; the servo angle is clamped to [ServoMin, ServoMax]
// rather than rejected.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{}, &ParseError{Kind: UnknownVerb, Reason: "empty command"}
	}

	switch tokens[0] {
	case "SERVO":
		if len(tokens) != 3 || tokens[1] != "SET" {
			return Command{}, &ParseError{Kind: BadArgument, Token: line, Reason: "usage: SERVO SET <0-180>"}
		}
		n, err := parseInt(tokens[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Verb: VerbServoSet, Value: clamp(n, ServoMin, ServoMax)}, nil

	case "STEPPER":
		if len(tokens) != 3 || tokens[1] != "MOVE" {
			return Command{}, &ParseError{Kind: BadArgument, Token: line, Reason: "usage: STEPPER MOVE <steps>"}
		}
		n, err := parseInt(tokens[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Verb: VerbStepperMove, Value: n}, nil

	case "RELAY":
		if len(tokens) != 2 {
			return Command{}, &ParseError{Kind: BadArgument, Token: line, Reason: "usage: RELAY ON|OFF"}
		}
		switch tokens[1] {
		case "ON":
			return Command{Verb: VerbRelay, On: true}, nil
		case "OFF":
			return Command{Verb: VerbRelay, On: false}, nil
		}
		return Command{}, &ParseError{Kind: BadArgument, Token: tokens[1], Reason: "relay state must be ON or OFF"}

	case "STATUS":
		return bareVerb(VerbStatus, tokens)

	case "SENSORS":
		return bareVerb(VerbSensors, tokens)

	case "STOP":
		return bareVerb(VerbStop, tokens)

	case "HELP":
		return bareVerb(VerbHelp, tokens)
	}

	return Command{}, &ParseError{Kind: UnknownVerb, Token: tokens[0], Reason: "unknown command"}
}

func bareVerb(v Verb, tokens []string) (Command, error) {
	if len(tokens) != 1 {
		return Command{}, &ParseError{Kind: BadArgument, Token: strings.Join(tokens[1:], " "), Reason: "unexpected argument"}
	}
	return Command{Verb: v}, nil
}

func parseInt(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, &ParseError{Kind: ArgOutOfRange, Token: token, Reason: "number out of range"}
	}
	return 0, &ParseError{Kind: BadArgument, Token: token, Reason: "not an integer"}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
