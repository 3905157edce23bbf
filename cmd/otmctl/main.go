package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/otm-exchange/otmctl/internal/config"
	"github.com/otm-exchange/otmctl/internal/export"
	"github.com/otm-exchange/otmctl/internal/importer"
	"github.com/otm-exchange/otmctl/internal/layout"
	"github.com/otm-exchange/otmctl/internal/otm"
	"github.com/otm-exchange/otmctl/internal/platform"
	"github.com/otm-exchange/otmctl/internal/schema"
	"github.com/otm-exchange/otmctl/internal/tfimport"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "import":
		runImport(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "from-tf":
		runFromTF(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: otmctl <command> [flags]

commands:
  import    submit an OTM document (creates or updates the remote project)
  export    fetch a remote project's OTM document
  from-tf   generate an OTM skeleton from Terraform files`)
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	input := fs.String("input", "", "Path to OTM YAML file (or - for stdin)")
	update := fs.String("update", "", "Explicit update target (project id or UUID); skips creation")
	noAutoUpdate := fs.Bool("no-auto-update", false, "Reject creation conflicts instead of updating the matching project")
	resetLayout := fs.Bool("reset-layout", false, "Strip diagram layout metadata before submission")
	skipValidation := fs.Bool("skip-validation", false, "Do not validate the document against the OTM schema")
	jsonOut := fs.Bool("json", false, "Output the result as JSON")
	fs.Parse(args)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: otmctl import -input <file|-> [-update <ref>] [-no-auto-update] [-reset-layout] [-skip-validation] [-json]")
		fs.PrintDefaults()
		os.Exit(1)
	}

	data, err := readInput(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	client := platform.NewClient(cfg)

	var validator schema.Validator = schema.NoopValidator{}
	if !*skipValidation {
		sv, err := schema.NewSchemaValidator()
		if err != nil {
			fmt.Fprintf(os.Stderr, "schema: %v\n", err)
			os.Exit(1)
		}
		validator = sv
	}

	eng := importer.New(client, client, validator, nil)
	opts := importer.DefaultOptions()
	opts.UpdateRef = *update
	opts.AutoUpdate = !*noAutoUpdate
	opts.ResetLayout = *resetLayout

	res, err := eng.Import(context.Background(), data, opts)
	if err != nil {
		var vErr *importer.ValidationFailedError
		if errors.As(err, &vErr) {
			for _, msg := range vErr.Errors {
				fmt.Fprintf(os.Stderr, "ERROR %s\n", msg)
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "import: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	} else {
		fmt.Printf("%s project %s", res.Action, res.ID)
		if res.UUID != "" {
			fmt.Printf(" (uuid %s)", res.UUID)
		}
		fmt.Println()
		if d, err := otm.Parse(data); err == nil {
			s := otm.Summarize(d)
			fmt.Printf("trust zones: %d, components: %d, dataflows: %d, threats: %d, mitigations: %d\n",
				s.TrustZones, s.Components, s.Dataflows, s.Threats, s.Mitigations)
		}
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	project := fs.String("project", "", "Project reference (id or UUID)")
	format := fs.String("format", "otm", "Output format: otm or json")
	output := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)

	if *project == "" {
		fmt.Fprintln(os.Stderr, "usage: otmctl export -project <ref> [-format otm|json] [-o file]")
		fs.PrintDefaults()
		os.Exit(1)
	}
	if *format != string(export.FormatOTM) && *format != string(export.FormatJSON) {
		fmt.Fprintf(os.Stderr, "unknown format: %s\n", *format)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	pipeline := export.New(platform.NewClient(cfg))

	out, err := pipeline.Export(context.Background(), *project, export.Format(*format))
	if err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}
	if err := writeOutput(*output, out); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
}

func runFromTF(args []string) {
	fs := flag.NewFlagSet("from-tf", flag.ExitOnError)
	dir := fs.String("dir", ".", "Directory containing .tf files")
	projectID := fs.String("project-id", "", "Project id for the generated document")
	name := fs.String("name", "", "Project name for the generated document")
	output := fs.String("o", "", "Output file (default stdout)")
	resetLayout := fs.Bool("reset-layout", false, "Strip layout metadata from the generated document")
	jsonOut := fs.Bool("json", false, "Output errors and warnings as JSON")
	fs.Parse(args)

	if *projectID == "" {
		fmt.Fprintln(os.Stderr, "usage: otmctl from-tf -project-id <id> [-name <name>] [-dir <path>] [-o file] [-json]")
		fs.PrintDefaults()
		os.Exit(1)
	}
	if *name == "" {
		*name = *projectID
	}

	files, err := readTFDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read terraform: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no .tf files in %s\n", *dir)
		os.Exit(1)
	}

	opts := tfimport.DefaultOptions()
	opts.ProjectID = *projectID
	opts.ProjectName = *name
	res := tfimport.New(opts).Convert(files)

	if *jsonOut && (len(res.Errors) > 0 || len(res.Warnings) > 0) {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	} else {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "ERROR [%s] %s\n", e.Path, e.Message)
			if e.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "  suggestion: %s\n", e.Suggestion)
			}
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "WARN [%s] %s\n", w.Path, w.Message)
		}
	}
	if !res.Success {
		os.Exit(1)
	}

	doc := res.Document
	if *resetLayout {
		doc = layout.StripSource(doc)
	}
	if err := writeOutput(*output, doc); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
}

func readInput(input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(input)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}

func readTFDir(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string][]byte)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files[e.Name()] = data
	}
	return files, nil
}
