package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/JuneAsz/genfiles/internal/batch"
	"github.com/JuneAsz/genfiles/internal/generator"
	"github.com/JuneAsz/genfiles/internal/manifest"
)

/*generates a batch of files with random names and random text content*/

const version = "v0.1.0"

var (
	summaryColor = color.New(color.FgCyan)
	pathColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgHiRed)
)

// Args holds the parsed command line. It is not modified after parsing.
type Args struct {
	Amount    uint
	Path      string
	Extension string
	NoPrint   bool

	KeepGoing bool
	Progress  bool
	Seed      uint64
	Manifest  string
	Verbose   bool
	Version   bool
}

func main() {
	os.Exit(run(os.Args[1:], color.Output, color.Error))
}

func parseArgs(argv []string, stderr io.Writer) (Args, error) {
	var a Args

	fs := flag.NewFlagSet("genfiles", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.UintVar(&a.Amount, "amount", 0, "Number of files to generate (required)")
	fs.UintVar(&a.Amount, "a", 0, "Shorthand for --amount")
	fs.StringVar(&a.Path, "path", ".", "Destination directory; must already exist")
	fs.StringVar(&a.Path, "p", ".", "Shorthand for --path")
	fs.StringVar(&a.Extension, "extension", "", "Extension appended to every generated name (required)")
	fs.StringVar(&a.Extension, "e", "", "Shorthand for --extension")
	// The name reads inverted: true (the default) prints a line per created file.
	fs.BoolVar(&a.NoPrint, "noprint", true, "Print a line for every created file (set --noprint=false to silence)")

	fs.BoolVar(&a.KeepGoing, "keep-going", false, "Continue past failures and report them at the end")
	fs.BoolVar(&a.Progress, "progress", false, "Show a progress bar on stderr")
	fs.Uint64Var(&a.Seed, "seed", 0, "Seed for reproducible output (0 picks a random seed)")
	fs.StringVar(&a.Manifest, "manifest", "", "Record the batch in this bbolt manifest file")
	fs.BoolVar(&a.Verbose, "v", false, "Log diagnostics to stderr")
	fs.BoolVar(&a.Version, "version", false, "Print the version and exit")

	if err := fs.Parse(argv); err != nil {
		return a, err
	}
	if a.Version {
		return a, nil
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case !set["amount"] && !set["a"]:
		err := errors.New("--amount is required")
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return a, err
	case !set["extension"] && !set["e"]:
		err := errors.New("--extension is required")
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return a, err
	}

	return a, nil
}

func run(argv []string, stdout, stderr io.Writer) int {
	args, err := parseArgs(argv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if args.Version {
		fmt.Fprintln(stdout, "genfiles", version)
		return 0
	}

	if args.Verbose {
		log.SetOutput(stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	opts := batch.Options{
		Amount:    args.Amount,
		Path:      args.Path,
		Extension: args.Extension,
		Print:     args.NoPrint,
		KeepGoing: args.KeepGoing,
		Progress:  args.Progress,
		Stdout:    stdout,
		Stderr:    stderr,
	}
	if args.Seed != 0 {
		opts.Generator = generator.NewSeeded(args.Seed)
	}

	var rec *manifest.Batch
	if args.Manifest != "" {
		m, err := manifest.OpenFile(args.Manifest)
		if err != nil {
			failColor.Fprintf(stderr, "Manifest failure: %v\n", err)
			return 0
		}
		defer m.Close()

		rec, err = m.Begin(args.Path, args.Extension, args.Amount)
		if err != nil {
			failColor.Fprintf(stderr, "Manifest failure: %v\n", err)
			return 0
		}
		opts.Recorder = rec
		log.Printf("[GENFILES] Recording batch %s in %s", rec.ID(), args.Manifest)
	}

	log.Printf("[GENFILES] Generating %d files in %s", args.Amount, args.Path)
	res, err := batch.CreateFiles(context.Background(), opts)

	if rec != nil {
		if ferr := rec.Finish(res, err); ferr != nil {
			failColor.Fprintf(stderr, "Manifest failure: %v\n", ferr)
		}
	}

	// Failures are reported, but the exit status stays 0.
	if err != nil {
		failColor.Fprintf(stderr, "Failed to create files: %v\n", err)
		if args.KeepGoing && len(res.Files) > 0 {
			pathColor.Fprintf(stdout, "Created %d of %d files in %s\n", len(res.Files), args.Amount, args.Path)
		}
		return 0
	}

	summaryColor.Fprintf(stdout, "Successfully created %d files!\n", len(res.Files))
	pathColor.Fprintf(stdout, "Path: %s\n", args.Path)
	if res.Bytes > 0 {
		fmt.Fprintf(stdout, "Wrote %s\n", humanize.Bytes(uint64(res.Bytes)))
	}
	return 0
}
