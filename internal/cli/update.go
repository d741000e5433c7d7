package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/quilldb/quill/internal/document"
	"github.com/quilldb/quill/internal/log"
	"github.com/quilldb/quill/internal/oplog"
	"github.com/quilldb/quill/internal/update"
)

// UpdateSpec is one entry of an updates file: remove the field at Path when
// its current value equals Value.
type UpdateSpec struct {
	Path  string `yaml:"path"`
	Value any    `yaml:"value"`
}

// ReadUpdatesFile parses a YAML updates file into a list of operator specs.
func ReadUpdatesFile(path string) ([]UpdateSpec, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs []UpdateSpec
	if err := yaml.Unmarshal(contents, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse updates file: %w", err)
	}
	for i := range specs {
		if specs[i].Path == "" {
			return nil, fmt.Errorf("updates file entry %v is missing a path", i)
		}
		specs[i].Value = normaliseNumbers(specs[i].Value)
	}
	return specs, nil
}

// normaliseNumbers widens YAML integers to doubles. Target documents are read
// as JSON, whose numbers are all doubles, and value matching is type exact, so
// an integer operand could never match.
func normaliseNumbers(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case []any:
		for i := range t {
			t[i] = normaliseNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normaliseNumbers(t[k])
		}
		return t
	}
	return v
}

func readDocumentFile(path string) (*document.Document, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := document.FromJSON(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document file '%v': %w", path, err)
	}
	return doc, nil
}

func writeDocument(doc *document.Document, path string) error {
	raw, err := doc.JSON()
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	if path == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func loggerFromFlags(c *cli.Context) log.Modular {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	if c.Bool("quiet") {
		w = io.Discard
	}
	return log.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

func applyCli() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "updates",
			Usage: "Path to a YAML file listing the fields to remove and the values they must match.",
		},
		&cli.StringFlag{
			Name:  "matched",
			Usage: "Array index bound into positional ('$') path elements.",
		},
		&cli.StringFlag{
			Name:  "oplog",
			Usage: "Append the replication record of the update to this file.",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Write the updated document to this file instead of stdout.",
		},
		&cli.BoolFlag{
			Name:  "shared-walk",
			Usage: "Resolve all update paths in a single pass over the document.",
		},
		verboseFlag,
		quietFlag,
	}

	return &cli.Command{
		Name:  "apply",
		Usage: "Remove matching fields from a JSON document",
		Flags: flags,
		Description: `
Applies each entry of the updates file to the document: a field is removed
when its current value equals the entry's value, and a single oplog record
covering every removed path is emitted:

  quill apply --updates updates.yaml --oplog changes.jsonl ./doc.json`[1:],
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("a single document file is required", 1)
			}

			specs, err := ReadUpdatesFile(c.String("updates"))
			if err != nil {
				return err
			}
			doc, err := readDocumentFile(c.Args().First())
			if err != nil {
				return err
			}

			opts := []update.DriverOption{update.WithLogger(loggerFromFlags(c))}
			if c.Bool("shared-walk") {
				opts = append(opts, update.WithWalker(update.SharedTreeWalker{}))
			}
			driver := update.NewDriver(opts...)
			for _, spec := range specs {
				operand, err := document.ValueOf(spec.Value)
				if err != nil {
					return fmt.Errorf("invalid value for path '%v': %w", spec.Path, err)
				}
				if err := driver.Add(spec.Path, operand); err != nil {
					return err
				}
			}

			var sink oplog.Sink
			if target := c.String("oplog"); target != "" {
				fileSink, err := oplog.NewFileSink(target)
				if err != nil {
					return err
				}
				defer func() {
					_ = fileSink.Close()
				}()
				sink = fileSink
			}

			out, err := driver.Execute(c.Context, doc, c.String("matched"), sink)
			if err != nil {
				return err
			}
			if out.Applied() == 0 {
				fmt.Fprintln(os.Stderr, "no fields matched, document unchanged")
			}
			return writeDocument(doc, c.String("output"))
		},
	}
}

func replayCli() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "oplog",
			Usage: "Path to the oplog file whose entries are replayed.",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Write the updated document to this file instead of stdout.",
		},
		verboseFlag,
		quietFlag,
	}

	return &cli.Command{
		Name:  "replay",
		Usage: "Reproduce the effect of recorded updates on a JSON document",
		Flags: flags,
		Description: `
Replays every entry of an oplog file against the document, removing each
recorded path unconditionally. Paths that no longer exist are skipped, so
replaying the same file twice is safe:

  quill replay --oplog changes.jsonl ./doc.json`[1:],
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("a single document file is required", 1)
			}

			entries, err := oplog.ReadFile(c.String("oplog"))
			if err != nil {
				return err
			}
			doc, err := readDocumentFile(c.Args().First())
			if err != nil {
				return err
			}

			if err := update.ReplayAll(doc, entries); err != nil {
				return err
			}
			loggerFromFlags(c).Debugf("replayed %v entries", len(entries))
			return writeDocument(doc, c.String("output"))
		},
	}
}
