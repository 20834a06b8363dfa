package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/git"
	"github.com/fwojciec/harvest/goquery"
	"github.com/fwojciec/harvest/htmltomarkdown"
	harvesthttp "github.com/fwojciec/harvest/http"
	"github.com/fwojciec/harvest/readability"
	"github.com/fwojciec/harvest/rod"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/trafilatura"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	links, err := c.links()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(links) == 0 {
		err := harvest.Errorf(harvest.EINVALID, "no links given")
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	user, err := deps.Users.ResolveUser(deps.Ctx, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawling %d link(s) for %s\n", len(links), user.FullName())
	for _, link := range links {
		fmt.Fprintf(deps.Stdout, "  %s\n", crawl.TruncateURL(link, 72))
	}

	tally, err := deps.Dispatcher.CrawlMany(deps.Ctx, links, user)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Done: %s\n", crawl.FormatTally(tally))
	return nil
}

// links returns the positional links followed by any URLs found in File.
func (c *CrawlCmd) links() ([]string, error) {
	links := append([]string(nil), c.Links...)
	if c.File == "" {
		return links, nil
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return nil, err
	}
	return append(links, harvest.ExtractURLs(string(data))...), nil
}

// newDispatcher registers an acquirer factory per supported source.
// Factories run once per URL so every acquisition gets fresh state.
func newDispatcher(c *CrawlCmd, contents harvest.ContentService, logger *slog.Logger) (*crawl.Dispatcher, error) {
	session := crawl.SessionConfig{
		Timeout:     c.BrowserTimeout,
		ScrollLimit: c.ScrollLimit,
		Logger:      logger,
	}

	d := crawl.NewDispatcher()
	d.Concurrency = c.Concurrency
	d.Logger = logger

	routes := []struct {
		domain  string
		factory crawl.Factory
	}{
		{"linkedin.com", func() (harvest.Acquirer, error) {
			acq, err := crawl.NewProfileAcquirer(crawl.ProfileConfig{
				Contents: contents,
				Launcher: rod.NewLauncher(),
				Parser:   goquery.NewPostParser(),
				Session:  session,
				Email:    c.LinkedInEmail,
				Password: c.LinkedInPassword,
				DebugDir: c.DebugDir,
				Logger:   logger,
			})
			if err != nil {
				return nil, err
			}
			return harvestslog.NewLoggingAcquirer(acq, logger), nil
		}},
		{"medium.com", func() (harvest.Acquirer, error) {
			acq := &crawl.ArticleAcquirer{
				Contents:  contents,
				Parser:    goquery.NewArticleParser(),
				Session:   session,
				Extractor: newExtractor(c.Extractor),
				Converter: htmltomarkdown.NewConverter(),
				Logger:    logger,
			}
			if c.NoBrowser {
				acq.Fetcher = harvestslog.NewLoggingFetcher(
					harvesthttp.NewFetcher(harvesthttp.WithTimeout(c.BrowserTimeout)), logger)
			} else {
				acq.Launcher = rod.NewLauncher()
			}
			return harvestslog.NewLoggingAcquirer(acq, logger), nil
		}},
		{"github.com", func() (harvest.Acquirer, error) {
			acq := &crawl.RepositoryAcquirer{
				Contents: contents,
				Cloner:   harvestslog.NewLoggingCloner(&git.Cloner{Token: c.GitHubToken}, logger),
				Logger:   logger,
			}
			return harvestslog.NewLoggingAcquirer(acq, logger), nil
		}},
	}

	for _, r := range routes {
		if err := d.Register(r.domain, r.factory); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func newExtractor(name string) harvest.Extractor {
	if name == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}
