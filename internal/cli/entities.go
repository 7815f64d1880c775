package cli

import (
	"fmt"

	"inflationdash/app"
)

// Execute implements the go-flags Commander interface for EntitiesCommand.
func (c *EntitiesCommand) Execute(args []string) error {
	svc, err := setup(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithService(svc)
}

func (c *EntitiesCommand) executeWithService(svc *app.DashboardService) error {
	entities := svc.Entities()
	if wantJSON(c.globals) {
		return printJSON(struct {
			Default  string   `json:"default"`
			Entities []string `json:"entities"`
		}{svc.DefaultEntity(), entities})
	}

	for _, e := range entities {
		marker := " "
		if e == svc.DefaultEntity() {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, e)
	}
	fmt.Printf("\n%d entities\n", len(entities))
	return nil
}
