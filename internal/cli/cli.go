// Package cli parses the pytron command line.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandRun     Command = "run"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandRun:     {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

type Parsed struct {
	Command  Command
	Root     string
	URL      string
	Engine   string
	Debug    bool
	ShowHelp bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	seenCommand := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--debug":
			parsed.Debug = true
		case "--root":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--root requires a path")
			}
			parsed.Root = args[i]
		case "--url":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--url requires an address")
			}
			parsed.URL = args[i]
		case "--engine":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--engine requires a name")
			}
			parsed.Engine = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}
			if seenCommand {
				return Parsed{}, fmt.Errorf("unexpected argument after command: %s", arg)
			}

			seenCommand = true
			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [flags] <command>

Commands:
  run       Launch the shell and serve the application
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  --root PATH     Application root directory (overrides app.root)
  --url ADDRESS   Initial URL to load (overrides app.url)
  --engine NAME   Rendering engine: chrome or native (overrides app.engine)
  --debug         Enable debug logging and devtools
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
