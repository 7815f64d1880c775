package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve    *ServeCommand
	Entities *EntitiesCommand
	Inspect  *InspectCommand
	Export   *ExportCommand
	Import   *ImportCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "inflationdash"
	parser.LongDescription = "Interactive dashboard decomposing inflation into unit labor cost, profit and tax contributions."

	cmds := &commands{
		Serve:    &ServeCommand{globals: &globals, version: version},
		Entities: &EntitiesCommand{globals: &globals, version: version},
		Inspect:  &InspectCommand{globals: &globals, version: version},
		Export:   &ExportCommand{globals: &globals, version: version},
		Import:   &ImportCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Serve the dashboard", "Load every dataset and serve the dashboard over HTTP until interrupted.", cmds.Serve)
	parser.AddCommand("entities", "List selectable entities", "List the entities that can be selected, in dataset order.", cmds.Entities)
	parser.AddCommand("inspect", "Print derived values for an entity", "Print the note, time range and chart specifications for one entity.", cmds.Inspect)
	parser.AddCommand("export", "Export chart rows to xlsx", "Write the filtered rows behind every chart for one entity to an xlsx workbook.", cmds.Export)
	parser.AddCommand("import", "Copy datasets into SQL tables", "Copy the configured dataset source into postgres or sqlite tables.", cmds.Import)

	return parser, &globals, cmds
}

// Run is the main entry point for the CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("inflationdash %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
