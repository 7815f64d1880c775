package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to TOML config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand: load the datasets and serve the dashboard over HTTP.
type ServeCommand struct {
	Port string `long:"port" description:"Override listen port"`

	globals *GlobalFlags
	version string
}

// EntitiesCommand: list selectable entities.
type EntitiesCommand struct {
	globals *GlobalFlags
	version string
}

// InspectCommand: print the note, time range and chart specs for one entity.
type InspectCommand struct {
	Entity string `long:"entity" description:"Entity to select (defaults to the configured default)"`
	Chart  string `long:"chart" description:"Only print this chart"`
	Tables bool   `long:"tables" description:"Print summary tables instead of chart specs"`

	globals *GlobalFlags
	version string
}

// ExportCommand: write the rows behind every chart for one entity to xlsx.
type ExportCommand struct {
	Entity string `long:"entity" description:"Entity to select (defaults to the configured default)"`
	Out    string `long:"out" description:"Output workbook path" default:"inflation.xlsx"`

	globals *GlobalFlags
	version string
}

// ImportCommand: copy the configured dataset source into SQL tables.
type ImportCommand struct {
	Driver      string `long:"driver" description:"Target driver: postgres | sqlite3" default:"sqlite3"`
	DatabaseURL string `long:"database-url" description:"Target DSN (required)"`

	globals *GlobalFlags
	version string
}
