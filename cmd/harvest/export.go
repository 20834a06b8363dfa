package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/fs"
)

// Run executes the export command. The user and each platform's records
// are written as separate artifacts; nothing is published unless every
// artifact is written.
func (c *ExportCmd) Run(deps *Dependencies) (err error) {
	user, err := deps.Users.ResolveUser(deps.Ctx, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	defer func() {
		if err != nil {
			_ = deps.Exporter.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		}
	}()

	if err := deps.Exporter.Export(deps.Ctx, "user", user); err != nil {
		return err
	}

	total := 0
	for _, p := range harvest.Platforms() {
		recs := deps.Contents.FindContents(deps.Ctx, harvest.ContentFilter{Platform: p, AuthorID: &user.ID})
		if err := deps.Exporter.Export(deps.Ctx, artifactName(p), recs); err != nil {
			return err
		}
		total += len(recs)
	}

	if err := deps.Exporter.Commit(); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d record(s) for %s\n", total, user.FullName())
	return nil
}

// artifactName returns the file stem for a platform's records.
func artifactName(p harvest.Platform) string {
	if p == harvest.PlatformRepository {
		return "repositories"
	}
	return string(p) + "s"
}

// newExporter writes under Dir into a directory named after the user.
func newExporter(c *ExportCmd) *fs.Exporter {
	name := strings.ToLower(strings.Join(strings.Fields(c.User), "_"))
	return fs.NewExporter(c.Dir, name)
}
