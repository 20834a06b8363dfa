package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	user, err := deps.Users.ResolveUser(deps.Ctx, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	counts, err := deps.Contents.CountContents(deps.Ctx, user.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.SetTitle(user.FullName())
	t.AppendHeader(table.Row{"Platform", "Records"})

	total := 0
	for _, p := range harvest.Platforms() {
		t.AppendRow(table.Row{p, counts[p]})
		total += counts[p]
	}
	t.AppendFooter(table.Row{"Total", total})

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
