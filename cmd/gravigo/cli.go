package main

import "time"

// CLI is the root command.
type CLI struct {
	Config string `short:"c" help:"YAML config file"`
	Debug  bool   `help:"Log every extraction stage"`

	Extract ExtractCmd `cmd:"" help:"Extract the article of one page"`
	Serve   ServeCmd   `cmd:"" help:"Serve extraction over HTTP"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL      string        `short:"u" name:"url" help:"Page to download and extract" xor:"source"`
	Input    string        `short:"i" help:"HTML file to read, '-' for stdin" xor:"source"`
	BaseURL  string        `name:"base-url" help:"URL of the --input page, used to resolve links"`
	Format   string        `short:"f" default:"json" enum:"json,text,html,markdown" help:"Output format: json, text, html or markdown"`
	Output   string        `short:"o" help:"Output file (default: stdout)"`
	Compact  bool          `help:"Output compact JSON without indentation"`
	NoImages bool          `name:"no-images" help:"Skip top image extraction"`
	Language string        `short:"l" help:"Language of the page when it declares none"`
	Timeout  time.Duration `help:"Timeout of the whole extraction"`
	Fallback bool          `help:"Use readability output when no content is found"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (default from config, :8080)"`
}

// VersionCmd is the "version" subcommand.
type VersionCmd struct{}
