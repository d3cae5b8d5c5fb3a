// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one line typed at the interactive player:
//
//	<verb> [a|b] [value]
//
// The deck defaults to a.
type Command struct {
	Verb  string
	Deck  int
	Value float64
}

var verbs = map[string]bool{
	// verb: takes a value
	"gain":   true,
	"speed":  true,
	"low":    true,
	"mid":    true,
	"high":   true,
	"seek":   true,
	"jump":   true,
	"load":   false,
	"start":  false,
	"stop":   false,
	"status": false,
	"help":   false,
	"quit":   false,
}

// ParseCommand parses one interactive command line. For "load" the file
// name is returned in arg.
func ParseCommand(line string) (cmd Command, arg string, err error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, "", ErrEmptyCommand
	}

	cmd.Verb = fields[0]
	takesValue, ok := verbs[cmd.Verb]
	if !ok {
		return Command{}, "", fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Verb)
	}

	rest := fields[1:]
	if len(rest) > 0 && (rest[0] == "a" || rest[0] == "b") {
		if rest[0] == "b" {
			cmd.Deck = 1
		}
		rest = rest[1:]
	}

	if cmd.Verb == "load" {
		// Keep the original case of the path.
		orig := strings.Fields(line)
		if len(rest) == 0 {
			return Command{}, "", fmt.Errorf("%w: load needs a file", ErrBadArgument)
		}
		return cmd, strings.Join(orig[len(orig)-len(rest):], " "), nil
	}

	switch {
	case takesValue && len(rest) != 1:
		return Command{}, "", fmt.Errorf("%w: %s needs one value", ErrBadArgument, cmd.Verb)
	case !takesValue && len(rest) != 0:
		return Command{}, "", fmt.Errorf("%w: %s takes no value", ErrBadArgument, cmd.Verb)
	case takesValue:
		v, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return Command{}, "", fmt.Errorf("%w: %w", ErrBadArgument, err)
		}
		cmd.Value = v
	}
	return cmd, "", nil
}

// CommandHelp lists the interactive commands.
const CommandHelp = `commands (deck a unless "b" follows the verb):
  start | stop            transport
  gain 0..1               output gain
  speed 0.1..4            playback rate
  low|mid|high -24..24    EQ band gain in dB
  seek <seconds>          absolute position
  jump 0..1               position as a fraction of the track
  load <file>             load a new track
  status                  show both decks
  quit`
