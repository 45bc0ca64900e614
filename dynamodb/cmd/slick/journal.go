package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acksell/slickddb/dynamodb/journal"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

func runJournal(cfg Config, args []string) error {
	fs := flag.NewFlagSet("journal", flag.ExitOnError)

	var (
		dir      = fs.String("dir", cfg.JournalDir, "journal directory")
		asJSON   = fs.Bool("json", false, "print entries as JSON")
		logLevel = fs.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	)

	fs.Usage = func() {
		fmt.Println(`slick journal - List recorded requests

Usage:
  slick journal --dir DIR [flags]

Flags:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("--dir is required")
	}

	log, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	j, err := journal.Open(journal.Options{Path: *dir, Logger: &log})
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Entries()
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(os.Stdout, entries)
	}
	for _, e := range entries {
		printEntry(os.Stdout, e)
	}
	return nil
}

func printEntry(w io.Writer, e journal.Entry) {
	mode := ""
	if e.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "#%d %s %s%s\n", e.Seq, e.Time.Format("2006-01-02 15:04:05"), e.Operation, mode)
	for _, p := range e.Parts {
		label := strings.TrimSpace(p.Path + " " + p.Table)
		if label != "" {
			fmt.Fprintf(w, "  %s\n", label)
		}
		for _, field := range p.ExpressionFields() {
			fmt.Fprintf(w, "    %s: %s\n", field, p.Expressions[field])
		}
		for _, k := range p.NameKeys() {
			fmt.Fprintf(w, "    %s = %s\n", k, p.Names[k])
		}
		for _, k := range p.ValueKeys() {
			var v any
			if err := attributevalue.Unmarshal(p.Values[k], &v); err != nil {
				fmt.Fprintf(w, "    %s = <%v>\n", k, err)
				continue
			}
			fmt.Fprintf(w, "    %s = %v\n", k, v)
		}
	}
}
