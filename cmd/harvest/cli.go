package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Users      harvest.UserService
	Contents   harvest.ContentService
	Dispatcher *crawl.Dispatcher
	Exporter   harvest.Exporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"HARVEST_DB" help:"Path to the SQLite store (default ~/.harvest/harvest.db)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	User   UserCmd   `cmd:"" help:"Resolve a user by full name, creating it if needed"`
	Crawl  CrawlCmd  `cmd:"" help:"Acquire content from links and attribute it to a user"`
	List   ListCmd   `cmd:"" help:"Show stored content counts for a user"`
	Export ExportCmd `cmd:"" help:"Export a user's content as JSON files"`
}

// UserCmd is the "user" subcommand.
type UserCmd struct {
	Name string `arg:"" help:"Full name (first and last)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	User  string   `arg:"" help:"Full name of the author"`
	Links []string `arg:"" optional:"" name:"link" help:"Links to acquire"`
	File  string   `short:"f" type:"existingfile" help:"Read links from a file"`

	GitHubToken      string        `name:"github-token" env:"GITHUB_TOKEN" help:"Token for cloning private repositories"`
	LinkedInEmail    string        `name:"linkedin-email" env:"LINKEDIN_EMAIL" help:"Social profile login email"`
	LinkedInPassword string        `name:"linkedin-password" env:"LINKEDIN_PASSWORD" help:"Social profile login password"`
	BrowserTimeout   time.Duration `name:"browser-timeout" env:"HARVEST_BROWSER_TIMEOUT" default:"30s" help:"Timeout for each page load and browser operation"`
	ScrollLimit      int           `name:"scroll-limit" env:"HARVEST_SCROLL_LIMIT" default:"5" help:"Maximum pagination scrolls per page (0 for no limit)"`
	Concurrency      int           `short:"c" env:"HARVEST_CONCURRENCY" default:"1" help:"Links acquired in parallel"`
	NoBrowser        bool          `name:"no-browser" env:"HARVEST_NO_BROWSER" help:"Fetch articles over plain HTTP instead of a browser"`
	Extractor        string        `env:"HARVEST_EXTRACTOR" enum:"trafilatura,readability" default:"trafilatura" help:"Fallback article extractor (${enum})"`
	DebugDir         string        `name:"debug-dir" env:"HARVEST_DEBUG_DIR" help:"Directory for failure screenshots"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	User string `arg:"" help:"Full name of the author"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	User string `arg:"" help:"Full name of the author"`
	Dir  string `short:"o" default:"export" help:"Parent directory for exported files"`
}
