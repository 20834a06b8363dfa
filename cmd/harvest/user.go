package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
)

// Run executes the user command.
func (c *UserCmd) Run(deps *Dependencies) error {
	user, err := deps.Users.ResolveUser(deps.Ctx, c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s  %s\n", user.ID, user.FullName())
	return nil
}
