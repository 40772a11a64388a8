// Package batch drives the generation loop: one random name, one file and one
// block of random content per iteration.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/JuneAsz/genfiles/internal/errs"
	"github.com/JuneAsz/genfiles/internal/generator"
	"github.com/JuneAsz/genfiles/internal/writer"
)

// GeneratedFile describes a file that was created and fully written.
type GeneratedFile struct {
	Name      string // base name without extension
	Extension string
	Path      string
	Size      int64
}

// Recorder is notified of every file once it has been written.
type Recorder interface {
	Record(f GeneratedFile) error
}

// Options configures a single batch.
type Options struct {
	Amount    uint
	Path      string // must already exist
	Extension string
	Print     bool // print a "Created: <path>" line per file

	// KeepGoing continues past failures and reports them together at the end.
	// The default is fail-fast: the first failure stops the batch and files
	// written so far are left in place.
	KeepGoing bool
	Progress  bool

	Generator *generator.Generator // nil uses generator.New()
	Recorder  Recorder             // optional
	Stdout    io.Writer            // nil uses color.Output
	Stderr    io.Writer            // progress bar target; nil uses os.Stderr
}

// Result is what a batch produced.
type Result struct {
	Files  []GeneratedFile
	Failed int
	Bytes  int64
}

const maxPrealloc = 1024

var createdColor = color.New(color.FgHiCyan)

// writeContent is replaced in tests to force write failures.
var writeContent = writer.WriteToFile

// CreateFiles runs the batch described by opts. On fail-fast errors the
// returned Result still lists the files written before the failure.
func CreateFiles(ctx context.Context, opts Options) (Result, error) {
	var res Result
	if opts.Amount == 0 {
		return res, nil
	}

	g := opts.Generator
	if g == nil {
		g = generator.New()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = color.Output
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions64(int64(opts.Amount),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	// Amount is user input; grow as files land instead of reserving it all.
	res.Files = make([]GeneratedFile, 0, min(opts.Amount, maxPrealloc))
	var failures []error

	for i := uint(0); i < opts.Amount; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		f, err := createOne(g, opts, stdout)
		if err == nil && opts.Recorder != nil {
			err = opts.Recorder.Record(f)
		}
		if bar != nil {
			bar.Add(1)
		}

		if err != nil {
			err = fmt.Errorf("file %d of %d: %w", i+1, opts.Amount, err)
			if !opts.KeepGoing {
				return res, err
			}
			failures = append(failures, err)
			res.Failed++
			continue
		}

		res.Files = append(res.Files, f)
		res.Bytes += f.Size
	}

	if len(failures) > 0 {
		return res, fmt.Errorf("%d of %d files failed: %w", res.Failed, opts.Amount, errors.Join(failures...))
	}
	return res, nil
}

func createOne(g *generator.Generator, opts Options, stdout io.Writer) (GeneratedFile, error) {
	name := g.FileName()
	path := filepath.Join(opts.Path, name+"."+opts.Extension)

	f, err := writer.CreateFile(path)
	if err != nil {
		return GeneratedFile{}, err
	}

	if opts.Print {
		createdColor.Fprintf(stdout, "Created: %s\n", path)
	}

	data := g.Data(generator.DataLength)
	if err := writeContent(f, data); err != nil {
		f.Close()
		return GeneratedFile{}, err
	}
	if err := f.Close(); err != nil {
		return GeneratedFile{}, errs.IO("close", path, err)
	}

	return GeneratedFile{
		Name:      name,
		Extension: opts.Extension,
		Path:      path,
		Size:      int64(len(data)),
	}, nil
}
