package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exrender <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Render exercise documents to PDF or HTML")
	fmt.Fprintln(w, "  normalize   Convert legacy exercise markup to HTML")
	fmt.Fprintln(w, "  check       Score answers against an exercise")
	fmt.Fprintln(w, "  catalog     List or look up catalog entries")
	fmt.Fprintln(w, "  doctor      Check the rendering environment")
	fmt.Fprintln(w, "  completion  Generate a shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'exrender help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exrender render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render exercise documents (.json, .yaml, .yml) to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Exercise file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-page timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --html                Write HTML alongside PDF")
	fmt.Fprintln(w, "      --html-only           Write HTML only, skip PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "      --correction          Include the correction")
	fmt.Fprintln(w, "      --params              Include the parameter panel")
	fmt.Fprintln(w, "      --source              Include the highlighted source markup")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style for the source view")
	fmt.Fprintln(w, "      --max-depth <n>       Normalization depth ceiling (0 = default)")
	fmt.Fprintln(w, "      --set <key=value>     Parameter override, e.g. sup2=3 (repeatable)")
	fmt.Fprintln(w, "      --answers <path>      Answers document; adds feedback to each page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Formulas:")
	fmt.Fprintln(w, "      --katex-url <url>     KaTeX dist URL (http(s) or file://)")
	fmt.Fprintln(w, "      --no-katex            Do not load KaTeX")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name (default, print) or CSS file")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file appended after the style")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  EXRENDER_CONFIG, EXRENDER_STYLE, EXRENDER_TIMEOUT, EXRENDER_WORKERS,")
	fmt.Fprintln(w, "  EXRENDER_INPUT_DIR, EXRENDER_OUTPUT_DIR, EXRENDER_PAGE_SIZE, EXRENDER_KATEX_URL")
}

// printNormalizeUsage prints usage for the normalize command.
func printNormalizeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exrender normalize [file|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert legacy exercise markup to an HTML fragment.")
	fmt.Fprintln(w, "Reads standard input when no file or '-' is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --max-depth <n>       Normalization depth ceiling (0 = default)")
	fmt.Fprintln(w, "      --field <name>        Read an exercise document and normalize this field")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exrender check <exercise> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Score answers against the exercise's autoCorrection entries.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --answer <i=value>    Answer to question i, zero-based (repeatable)")
	fmt.Fprintln(w, "      --answers <path>      Answers document: {0: \"3,5\", 1: \"12\"}")
	fmt.Fprintln(w, "      --html                Print the feedback as HTML")
	fmt.Fprintln(w, "  -q, --quiet               Only print the score")
}

// printCatalogUsage prints usage for the catalog command.
func printCatalogUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exrender catalog [code] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List catalog entries, or show the entry for a code.")
	fmt.Fprintln(w, "Codes are resolved against the registry (eC10 at level 6e -> 6C10).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --catalog <path>      Catalog document (default: config catalog.path)")
	fmt.Fprintln(w, "      --registry <path>     Code registry document (default: config catalog.registry)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exrender doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, KaTeX and temp directory availability.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w, "      --katex-url <url>     KaTeX dist URL to check (default: $EXRENDER_KATEX_URL)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "normalize":
		printNormalizeUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "catalog":
		printCatalogUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: exrender version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: exrender help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
