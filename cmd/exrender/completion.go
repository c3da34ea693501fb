package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
)

// Shell is a shell for which a completion script can be generated.
type Shell string

// Supported shells.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned for shells without a generator.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagKind tells a shell how to complete a flag value.
type flagKind int

const (
	flagValue flagKind = iota // free text or number
	flagBool                  // takes no value
	flagEnum                  // one of Values
	flagFile                  // file matching Glob
	flagDir                   // directory
)

// flagDef describes a flag for completion.
type flagDef struct {
	Long       string
	Short      string
	Desc       string
	Kind       flagKind
	Values     []string
	Glob       string // comma-separated, e.g. "*.yaml,*.yml"
	Repeatable bool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed word arguments, e.g. shell names
	Files string   // glob of file arguments; "*" for any file
}

// completionMeta holds what a FlagSet cannot tell: accepted values,
// file globs and directories. Names, shorthands and help text come from
// the FlagSet.
type completionMeta struct {
	Values []string
	Glob   string
	Dir    bool
}

const exerciseGlob = "*.json,*.yaml,*.yml"

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"field":           {Values: []string{"contenu", "contenuCorrection"}},
	"highlight-style": {Values: styles.Names()},

	"config":   {Glob: "*.yaml,*.yml"},
	"style":    {Glob: "*.css"},
	"css":      {Glob: "*.css"},
	"answers":  {Glob: exerciseGlob},
	"catalog":  {Glob: exerciseGlob},
	"registry": {Glob: exerciseGlob},
	"output":   {Glob: "*"},

	"asset-path": {Dir: true},
}

// extractFlags lists the flags of fs enriched with flagCompletionMeta.
// The help flag is skipped.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		if f.Name == "help" {
			return
		}
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Kind = flagBool
		case "stringArray", "stringSlice":
			fd.Repeatable = true
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok && fd.Kind != flagBool {
			switch {
			case len(meta.Values) > 0:
				fd.Kind, fd.Values = flagEnum, meta.Values
			case meta.Glob != "":
				fd.Kind, fd.Glob = flagFile, meta.Glob
			case meta.Dir:
				fd.Kind = flagDir
			}
		}
		defs = append(defs, fd)
	})
	return defs
}

// getCommands returns the command registry for completion. Flags come from
// the same FlagSets the commands parse with.
func getCommands() []commandDef {
	topics := []string{"render", "normalize", "check", "catalog", "doctor", "completion", "version", "help"}

	return []commandDef{
		{
			Name:  "render",
			Desc:  "Render exercise documents to PDF or HTML",
			Flags: extractFlags(newRenderFlagSet(&renderFlags{}, io.Discard)),
			Files: exerciseGlob,
		},
		{
			Name:  "normalize",
			Desc:  "Convert legacy exercise markup to HTML",
			Flags: extractFlags(newNormalizeFlagSet(&normalizeFlags{}, io.Discard)),
			Files: "*",
		},
		{
			Name:  "check",
			Desc:  "Score answers against an exercise",
			Flags: extractFlags(newCheckFlagSet(&checkFlags{}, io.Discard)),
			Files: exerciseGlob,
		},
		{
			Name:  "catalog",
			Desc:  "List or look up catalog entries",
			Flags: extractFlags(newCatalogFlagSet(&catalogFlags{}, io.Discard)),
		},
		{
			Name:  "doctor",
			Desc:  "Check the rendering environment",
			Flags: extractFlags(newDoctorFlagSet(&doctorFlags{}, io.Discard)),
		},
		{
			Name: "completion",
			Desc: "Generate a shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: topics},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(getCommands())
	case ShellZsh:
		script = zshScript(getCommands())
	case ShellFish:
		script = fishScript(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if args[0] == "-h" || args[0] == "--help" {
		printCompletionUsage(env.Stderr)
		return errHelp
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints usage for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: exrender completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a shell completion script for bash, zsh or fish.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(exrender completion bash)\"              # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(exrender completion zsh)\"               # in ~/.zshrc, after compinit")
	fmt.Fprintln(w, "  Fish:  exrender completion fish > ~/.config/fish/completions/exrender.fish")
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" && ext != "*" {
			exts = append(exts, ext)
		}
	}
	return exts
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// ---------------------------------------------------------------------------
// bash
// ---------------------------------------------------------------------------

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for exrender\n")
	b.WriteString("_exrender_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && c.Files == "" {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		writeBashValueCases(&b, c.Flags)

		var words []string
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
			if f.Short != "" {
				words = append(words, "-"+f.Short)
			}
		}
		b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
		b.WriteString("            else\n")
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(c.Args, " "))
		case c.Files != "":
			b.WriteString("                " + bashFileReply(c.Files) + "\n")
		default:
			b.WriteString("                COMPREPLY=()\n")
		}
		b.WriteString("            fi\n")
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _exrender_completions exrender\n")
	return b.String()
}

// writeBashValueCases completes the value of the previous flag.
func writeBashValueCases(b *strings.Builder, flags []flagDef) {
	var cases []string
	for _, f := range flags {
		var reply string
		switch f.Kind {
		case flagEnum:
			reply = fmt.Sprintf("COMPREPLY=($(compgen -W %q -- \"$cur\"))", strings.Join(f.Values, " "))
		case flagFile:
			reply = bashFileReply(f.Glob)
		case flagDir:
			reply = "COMPREPLY=($(compgen -d -- \"$cur\"))"
		default:
			continue
		}
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		cases = append(cases, fmt.Sprintf("                %s)\n                    %s\n                    return\n                    ;;\n", pattern, reply))
	}
	if len(cases) == 0 {
		return
	}
	b.WriteString("            case \"$prev\" in\n")
	for _, c := range cases {
		b.WriteString(c)
	}
	b.WriteString("            esac\n")
}

func bashFileReply(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return "COMPREPLY=($(compgen -f -- \"$cur\"))"
	}
	return fmt.Sprintf("COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))", strings.Join(exts, "|"))
}

// ---------------------------------------------------------------------------
// zsh
// ---------------------------------------------------------------------------

// zshEscape escapes text placed inside a single-quoted _arguments spec.
var zshEscape = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func zshScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef exrender\n\n")
	b.WriteString("_exrender() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		var specs []string
		for _, f := range c.Flags {
			specs = append(specs, zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			specs = append(specs, fmt.Sprintf("'1:argument:(%s)'", strings.Join(c.Args, " ")))
		case c.Files != "":
			specs = append(specs, "'*:file:"+zshFileAction(c.Files)+"'")
		}
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for i, spec := range specs {
			b.WriteString("                " + spec)
			if i < len(specs)-1 {
				b.WriteString(" \\")
			}
			b.WriteString("\n")
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_exrender \"$@\"\n")
	return b.String()
}

func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape.Replace(f.Desc) + "]"

	var arg string
	switch f.Kind {
	case flagBool:
	case flagEnum:
		arg = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		arg = ":file:" + zshFileAction(f.Glob)
	case flagDir:
		arg = ":directory:_files -/"
	default:
		arg = ":value:"
	}

	repeat := ""
	if f.Repeatable {
		repeat = "*"
	}
	if f.Short == "" {
		return "'" + repeat + "--" + f.Long + desc + arg + "'"
	}
	prefix := fmt.Sprintf("(-%s --%s)", f.Short, f.Long)
	if f.Repeatable {
		prefix = repeat
	}
	return fmt.Sprintf("'%s'{-%s,--%s}'%s%s'", prefix, f.Short, f.Long, desc, arg)
}

func zshFileAction(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return "_files"
	}
	if len(exts) == 1 {
		return `_files -g "*.` + exts[0] + `"`
	}
	return `_files -g "*.(` + strings.Join(exts, "|") + `)"`
}

// ---------------------------------------------------------------------------
// fish
// ---------------------------------------------------------------------------

var fishEscape = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for exrender\n\n")
	b.WriteString("function __fish_exrender_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_exrender_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c exrender -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c exrender -n __fish_exrender_needs_command -a %s -d '%s'\n", c.Name, fishEscape.Replace(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_exrender_using_command %s'", c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			b.WriteString("complete -c exrender " + cond + " -l " + f.Long)
			if f.Short != "" {
				b.WriteString(" -s " + f.Short)
			}
			switch f.Kind {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscape.Replace(f.Desc))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c exrender %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.Files != "":
			fmt.Fprintf(&b, "complete -c exrender %s -F\n", cond)
		}
	}
	return b.String()
}
