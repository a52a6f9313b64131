package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pleimann/ctlmap/internal/action"
	"github.com/pleimann/ctlmap/internal/ui"
	"github.com/pleimann/ctlmap/internal/xkeys"
)

type Check struct {
	Mapping `embed:""`

	Display string `help:"X display to resolve keys against" env:"DISPLAY"`
}

func (c *Check) Run(logger *slog.Logger) error {
	cfg, origin, err := c.Mapping.Load()
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}

	sink, err := xkeys.Open(c.Display, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	resolver := action.NewResolver(sink)
	problems := CheckTable(resolver, table)
	ui.PrintCheckReport(os.Stdout, origin, table.Len(), resolver.Len(), problems)
	if len(problems) > 0 {
		return fmt.Errorf("%d action(s) reference unknown keys", len(problems))
	}
	return nil
}

// CheckTable resolves every key named by the table's actions
func CheckTable(r *action.Resolver, table *action.Mapper) []ui.CheckProblem {
	var problems []ui.CheckProblem
	for _, a := range table.Actions() {
		if err := r.ResolveAll(a.Spec); err != nil {
			problems = append(problems, ui.CheckProblem{Binding: a.Desc, Err: err})
		}
	}
	return problems
}
