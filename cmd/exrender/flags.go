package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// assetFlags holds asset-related flags (styles, extra CSS, asset directory).
type assetFlags struct {
	style     string // Name, path or raw CSS
	css       string // Extra CSS file appended after the style
	assetPath string // Override asset directory
}

// katexFlags holds formula renderer flags.
type katexFlags struct {
	baseURL  string
	disabled bool
}

// sectionFlags selects the optional page sections.
type sectionFlags struct {
	correction     bool
	parameters     bool
	source         bool
	highlightStyle string
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool // Write HTML alongside PDF
	htmlOnly bool // Write HTML only, skip PDF
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	maxDepth   int
	answers    string   // Answers document applied to every exercise
	overrides  []string // key=value parameter overrides
	page       pageFlags
	assets     assetFlags
	katex      katexFlags
	sections   sectionFlags
	outputMode outputFlags
}

// normalizeFlags holds flags for the normalize command.
type normalizeFlags struct {
	output   string
	maxDepth int
	field    string // Exercise field to normalize when the input is a document
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common  commonFlags
	answers string   // Answers document
	answer  []string // index=value pairs
	html    bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json     bool
	katexURL string
}

// catalogFlags holds flags for the catalog command.
type catalogFlags struct {
	common   commonFlags
	catalog  string
	registry string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addKaTeXFlags adds formula renderer flags to a FlagSet.
func addKaTeXFlags(fs *flag.FlagSet, f *katexFlags) {
	fs.StringVar(&f.baseURL, "katex-url", "", "KaTeX dist URL (http(s) or file://)")
	fs.BoolVar(&f.disabled, "no-katex", false, "do not load KaTeX")
}

// addSectionFlags adds optional section flags to a FlagSet.
func addSectionFlags(fs *flag.FlagSet, f *sectionFlags) {
	fs.BoolVar(&f.correction, "correction", false, "include the correction")
	fs.BoolVar(&f.parameters, "params", false, "include the parameter panel")
	fs.BoolVar(&f.source, "source", false, "include the highlighted source markup")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for the source view")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "output HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// newRenderFlagSet registers the render command flags into f.
// Parsing and shell completion share it.
func newRenderFlagSet(f *renderFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("render", printRenderUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "normalization depth ceiling (0 = default)")
	fs.StringVar(&f.answers, "answers", "", "answers document to check (JSON or YAML)")
	fs.StringArrayVar(&f.overrides, "set", nil, "parameter override key=value (repeatable)")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)
	addKaTeXFlags(fs, &f.katex)
	addSectionFlags(fs, &f.sections)
	addOutputFlags(fs, &f.outputMode)
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func newNormalizeFlagSet(f *normalizeFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("normalize", printNormalizeUsage, stderr)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "normalization depth ceiling (0 = default)")
	fs.StringVar(&f.field, "field", "", "exercise field to normalize: contenu, contenuCorrection")
	return fs
}

// parseNormalizeFlags parses normalize command flags.
func parseNormalizeFlags(args []string, stderr io.Writer) (*normalizeFlags, []string, error) {
	f := &normalizeFlags{}
	fs := newNormalizeFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func newCheckFlagSet(f *checkFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("check", printCheckUsage, stderr)
	fs.StringVar(&f.answers, "answers", "", "answers document (JSON or YAML)")
	fs.StringArrayVarP(&f.answer, "answer", "a", nil, "answer index=value (repeatable)")
	fs.BoolVar(&f.html, "html", false, "print the feedback as HTML")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseCheckFlags parses check command flags.
func parseCheckFlags(args []string, stderr io.Writer) (*checkFlags, []string, error) {
	f := &checkFlags{}
	fs := newCheckFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func newCatalogFlagSet(f *catalogFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("catalog", printCatalogUsage, stderr)
	fs.StringVar(&f.catalog, "catalog", "", "catalog document (list of code, niveau, titre)")
	fs.StringVar(&f.registry, "registry", "", "code registry document")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseCatalogFlags parses catalog command flags.
func parseCatalogFlags(args []string, stderr io.Writer) (*catalogFlags, []string, error) {
	f := &catalogFlags{}
	fs := newCatalogFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func newDoctorFlagSet(f *doctorFlags, stderr io.Writer) *flag.FlagSet {
	fs := newFlagSet("doctor", printDoctorUsage, stderr)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	fs.StringVar(&f.katexURL, "katex-url", "", "KaTeX dist URL to check (default: $EXRENDER_KATEX_URL)")
	return fs
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newDoctorFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: doctor takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// errHelp is returned by parsers when -h or --help is given.
var errHelp = flag.ErrHelp
