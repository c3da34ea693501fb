package main

// Notes:
// - Scripts are checked for content markers only; running them needs the
//   target shells and is left out.
// - Completion flags come from the same FlagSets the commands parse with,
//   so a flag added to a command shows up here without further wiring.

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script content per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell        Shell
		wantContains []string
	}{
		{
			shell: ShellBash,
			wantContains: []string{
				"_exrender_completions()",
				"complete -o filenames -F _exrender_completions exrender",
				`compgen -W "render normalize check catalog doctor completion version help"`,
				"--page-size|-p)",
				`compgen -W "letter a4 legal"`,
				"!*.@(json|yaml|yml)",
				"!*.@(yaml|yml)",
				"--asset-path)\n                    COMPREPLY=($(compgen -d",
				`compgen -W "bash zsh fish"`,
				"--answer -a --answers",
			},
		},
		{
			shell: ShellZsh,
			wantContains: []string{
				"#compdef exrender",
				"_describe 'command' commands",
				"'render:Render exercise documents to PDF or HTML'",
				"_arguments",
				"'(-p --page-size)'{-p,--page-size}",
				":value:(letter a4 legal)",
				"'*--set[parameter override key=value (repeatable)]:value:'",
				"'*'{-a,--answer}'[answer index=value (repeatable)]:value:'",
				"'--no-katex[do not load KaTeX]'",
				`'*:file:_files -g "*.(json|yaml|yml)"'`,
				"'1:argument:(bash zsh fish)'",
				"_exrender \"$@\"",
			},
		},
		{
			shell: ShellFish,
			wantContains: []string{
				"complete -c exrender -f",
				"function __fish_exrender_needs_command",
				"-n __fish_exrender_needs_command -a catalog -d 'List or look up catalog entries'",
				"-n '__fish_exrender_using_command render' -l output -s o -r -F",
				"-l page-size -s p -x -a 'letter a4 legal'",
				"-l field -x -a 'contenu contenuCorrection'",
				"-l asset-path -x -a '(__fish_complete_directories)'",
				"-l json -d 'print the report as JSON'",
				"-n '__fish_exrender_using_command completion' -a 'bash zsh fish'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q) error = %v", tt.shell, err)
			}
			out := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
			for _, cmd := range getCommands() {
				if !strings.Contains(out, cmd.Name) {
					t.Errorf("%s script missing command %q", tt.shell, cmd.Name)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{"", "tcsh", "powershell", "BASH"} {
		var buf bytes.Buffer
		err := GenerateCompletion(&buf, shell)
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("GenerateCompletion(%q) error = %v, want ErrUnsupportedShell", shell, err)
		}
		if buf.Len() != 0 {
			t.Errorf("GenerateCompletion(%q) wrote %d bytes", shell, buf.Len())
		}
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Registry built from the command FlagSets
// ---------------------------------------------------------------------------

func TestGetCommands_MatchUsage(t *testing.T) {
	t.Parallel()

	var usage bytes.Buffer
	printUsage(&usage)

	cmds := getCommands()
	for _, cmd := range cmds {
		if !strings.Contains(usage.String(), "  "+cmd.Name+" ") {
			t.Errorf("command %q missing from usage", cmd.Name)
		}
	}

	help := cmds[len(cmds)-1]
	if help.Name != "help" || !slices.Equal(help.Args, commandNames(cmds)) {
		t.Errorf("help topics = %v, want %v", help.Args, commandNames(cmds))
	}
}

func TestGetCommands_FlagsFromFlagSets(t *testing.T) {
	t.Parallel()

	flagSets := map[string]*flag.FlagSet{
		"render":    newRenderFlagSet(&renderFlags{}, io.Discard),
		"normalize": newNormalizeFlagSet(&normalizeFlags{}, io.Discard),
		"check":     newCheckFlagSet(&checkFlags{}, io.Discard),
		"catalog":   newCatalogFlagSet(&catalogFlags{}, io.Discard),
		"doctor":    newDoctorFlagSet(&doctorFlags{}, io.Discard),
	}

	for _, cmd := range getCommands() {
		fs, ok := flagSets[cmd.Name]
		if !ok {
			if len(cmd.Flags) != 0 {
				t.Errorf("%s has %d flags, want none", cmd.Name, len(cmd.Flags))
			}
			continue
		}

		var want []string
		fs.VisitAll(func(f *flag.Flag) { want = append(want, f.Name) })
		var got []string
		for _, f := range cmd.Flags {
			got = append(got, f.Long)
		}
		if !slices.Equal(got, want) {
			t.Errorf("%s flags = %v, want %v", cmd.Name, got, want)
		}
	}
}

func TestFlagCompletionMeta_NamesRealFlags(t *testing.T) {
	t.Parallel()

	known := map[string]bool{}
	for _, cmd := range getCommands() {
		for _, f := range cmd.Flags {
			known[f.Long] = true
		}
	}
	for name := range flagCompletionMeta {
		if !known[name] {
			t.Errorf("completion metadata for unknown flag --%s", name)
		}
	}
}

func TestExtractFlags_Kinds(t *testing.T) {
	t.Parallel()

	defs := map[string]flagDef{}
	for _, f := range extractFlags(newRenderFlagSet(&renderFlags{}, io.Discard)) {
		defs[f.Long] = f
	}

	tests := []struct {
		flag       string
		kind       flagKind
		glob       string
		repeatable bool
	}{
		{"page-size", flagEnum, "", false},
		{"highlight-style", flagEnum, "", false},
		{"config", flagFile, "*.yaml,*.yml", false},
		{"answers", flagFile, exerciseGlob, false},
		{"asset-path", flagDir, "", false},
		{"html-only", flagBool, "", false},
		{"set", flagValue, "", true},
		{"workers", flagValue, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()

			f, ok := defs[tt.flag]
			if !ok {
				t.Fatalf("flag --%s not extracted", tt.flag)
			}
			if f.Kind != tt.kind || f.Glob != tt.glob || f.Repeatable != tt.repeatable {
				t.Errorf("--%s = kind %d glob %q repeatable %v, want kind %d glob %q repeatable %v",
					tt.flag, f.Kind, f.Glob, f.Repeatable, tt.kind, tt.glob, tt.repeatable)
			}
		})
	}

	if len(defs["highlight-style"].Values) == 0 || !slices.Contains(defs["highlight-style"].Values, "github") {
		t.Errorf("highlight-style values = %v, want chroma style names", defs["highlight-style"].Values)
	}
	if _, ok := defs["help"]; ok {
		t.Error("help flag should not be completed")
	}
}

func TestGlobExtensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		glob string
		want []string
	}{
		{exerciseGlob, []string{"json", "yaml", "yml"}},
		{"*.css", []string{"css"}},
		{"*", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := globExtensions(tt.glob); !slices.Equal(got, tt.want) {
			t.Errorf("globExtensions(%q) = %v, want %v", tt.glob, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - Command entry point
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv("")
	if err := runCompletion(nil, env); err != nil {
		t.Fatalf("runCompletion() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage: exrender completion <shell>") {
		t.Errorf("stdout = %q, want usage", stdout.String())
	}

	env, _, stderr := testEnv("")
	if err := runCompletion([]string{"--help"}, env); !errors.Is(err, errHelp) {
		t.Errorf("runCompletion(--help) error = %v, want errHelp", err)
	}
	if !strings.Contains(stderr.String(), "exrender completion") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}

	env, stdout, _ = testEnv("")
	if err := runCompletion([]string{"zsh"}, env); err != nil {
		t.Fatalf("runCompletion(zsh) error = %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "#compdef exrender") {
		t.Errorf("zsh script starts with %q", stdout.String()[:min(20, stdout.Len())])
	}
}
