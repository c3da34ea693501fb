package texnorm_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-exrender/internal/texnorm"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "plain text",
			input: "Calculer la somme.",
			want:  "Calculer la somme.",
		},
		{
			name:  "bold",
			input: `\textbf{Hi}`,
			want:  `<strong>Hi</strong>`,
		},
		{
			name:  "italic and emphasis",
			input: `\textit{a} et \emph{b}`,
			want:  `<em>a</em> et <em>b</em>`,
		},
		{
			name:  "nested inline styles",
			input: `\textbf{x \emph{y}}`,
			want:  `<strong>x <em>y</em></strong>`,
		},
		{
			name:  "unbalanced inline argument left as text",
			input: `\textbf{oops`,
			want:  `\textbf{oops`,
		},
		{
			name:  "itemize",
			input: `\begin{itemize}\item A\item B\end{itemize}`,
			want:  `<ul class="list-disc ml-6 space-y-1"><li>A</li><li>B</li></ul>`,
		},
		{
			name:  "enumerate",
			input: "\\begin{enumerate}\n\\item Un\n\\item Deux\n\\end{enumerate}",
			want:  `<ol class="list-decimal ml-6 space-y-1"><li>Un</li><li>Deux</li></ol>`,
		},
		{
			name:  "empty enumerate",
			input: `\begin{enumerate}\end{enumerate}`,
			want:  `<ol class="list-decimal ml-6 space-y-1"></ol>`,
		},
		{
			name:  "case and spacing insensitive markers",
			input: `\BEGIN{ Itemize }\ITEM a\End{itemize}`,
			want:  `<ul class="list-disc ml-6 space-y-1"><li>a</li></ul>`,
		},
		{
			name:  "text before first item becomes an item",
			input: `\begin{itemize}Lead\item A\end{itemize}`,
			want:  `<ul class="list-disc ml-6 space-y-1"><li>Lead</li><li>A</li></ul>`,
		},
		{
			name:  "empty items dropped",
			input: `\begin{itemize}\item A\item   \item B\end{itemize}`,
			want:  `<ul class="list-disc ml-6 space-y-1"><li>A</li><li>B</li></ul>`,
		},
		{
			name:  "spacing wrapper inside list body removed",
			input: `\begin{itemize}\begin{spacing}{1.5}\item A\item B\end{spacing}\end{itemize}`,
			want:  `<ul class="list-disc ml-6 space-y-1"><li>A</li><li>B</li></ul>`,
		},
		{
			name:  "enumerate nested in itemize",
			input: `\begin{itemize}\item A\begin{enumerate}\item x\item y\end{enumerate}\item B\end{itemize}`,
			want: `<ul class="list-disc ml-6 space-y-1"><li>A<ol class="list-decimal ml-6 space-y-1">` +
				`<li>x</li><li>y</li></ol></li><li>B</li></ul>`,
		},
		{
			name:  "itemize nested in itemize",
			input: `\begin{itemize}\item A\begin{itemize}\item x\end{itemize}\item B\end{itemize}`,
			want: `<ul class="list-disc ml-6 space-y-1"><li>A<ul class="list-disc ml-6 space-y-1">` +
				`<li>x</li></ul></li><li>B</li></ul>`,
		},
		{
			name:  "unmatched begin left as text",
			input: `\begin{itemize}\item A`,
			want:  `\begin{itemize}<br>• A`,
		},
		{
			name:  "spacing with intro and items",
			input: `\begin{spacing}{1.5}Intro\item X\item Y\end{spacing}`,
			want: `<div class="leading-relaxed space-y-2" style="line-height:1.5" data-spacing="1.5">` +
				`<div>Intro</div><ul class="list-disc ml-6 space-y-1"><li>X</li><li>Y</li></ul></div>`,
		},
		{
			name:  "spacing without items",
			input: `\begin{spacing}{2}Hello \textbf{x}\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2" style="line-height:2" data-spacing="2">Hello <strong>x</strong></div>`,
		},
		{
			name:  "spacing with comma ratio",
			input: `\begin{spacing}{1,25}a\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2" style="line-height:1.25" data-spacing="1,25">a</div>`,
		},
		{
			name:  "spacing with zero ratio",
			input: `\begin{spacing}{0}a\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2" data-spacing="0">a</div>`,
		},
		{
			name:  "spacing with negative ratio",
			input: `\begin{spacing}{-2}a\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2" data-spacing="-2">a</div>`,
		},
		{
			name:  "spacing with non numeric ratio",
			input: `\begin{spacing}{abc}a\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2">a</div>`,
		},
		{
			name:  "spacing ratio junk removed",
			input: `\begin{spacing}{ 1.5em }a\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2" style="line-height:1.5" data-spacing="1.5">a</div>`,
		},
		{
			name:  "spacing without ratio argument",
			input: `\begin{spacing}a\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2">a</div>`,
		},
		{
			name:  "empty spacing",
			input: `\begin{spacing}{1}\end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2" style="line-height:1" data-spacing="1"></div>`,
		},
		{
			name:  "spacing with separator and no items",
			input: `\begin{spacing}{1}\item \end{spacing}`,
			want:  `<div class="leading-relaxed space-y-2" style="line-height:1" data-spacing="1"><ul class="list-disc ml-6 space-y-1"></ul></div>`,
		},
		{
			name:  "multicols",
			input: `\begin{multicols}{2}A\columnbreak B\end{multicols}`,
			want:  `<div class="columns-2 gap-6">A<span class="column-break"></span>B</div>`,
		},
		{
			name:  "multicols count clamped",
			input: `\begin{multicols}{0}A\end{multicols}`,
			want:  `<div class="columns-1 gap-6">A</div>`,
		},
		{
			name:  "multicols without numeric count left as text",
			input: `\begin{multicols}{x}A\end{multicols}`,
			want:  `\begin{multicols}{x}A\end{multicols}`,
		},
		{
			name:  "skips",
			input: `a\smallskip b\medskip c\BIGSKIP d`,
			want: `a<div class="skip skip-small"></div>b<div class="skip skip-medium"></div>` +
				`c<div class="skip skip-large"></div>d`,
		},
		{
			name:  "margin note",
			input: `x\marginpar{\footnotesize Note}y`,
			want:  `x<span class="margin-note">Note</span>y`,
		},
		{
			name:  "empty margin note dropped",
			input: `x\marginpar{\footnotesize }y`,
			want:  `xy`,
		},
		{
			name:  "margin note with inline style",
			input: `\marginpar{\textbf{!}}`,
			want:  `<span class="margin-note"><strong>!</strong></span>`,
		},
		{
			name:  "newline",
			input: `A\newline B`,
			want:  `A<br>B`,
		},
		{
			name:  "newpage",
			input: `A\newpage`,
			want:  `A<hr class="page-break">`,
		},
		{
			name:  "noindent",
			input: `\noindent Hello`,
			want:  `Hello`,
		},
		{
			name:  "hfill",
			input: `a\hfill b`,
			want:  `a<span class="hfill"></span>b`,
		},
		{
			name:  "footnotesize",
			input: `\footnotesize petit`,
			want:  `petit`,
		},
		{
			name:  "stray item",
			input: `a \item b`,
			want:  `a <br>• b`,
		},
		{
			name:  "directive prefix of longer word untouched",
			input: `\newlines`,
			want:  `\newlines`,
		},
		{
			name:  "residual break",
			input: `a\\b`,
			want:  `a<br>b`,
		},
		{
			name:  "residual break with spaces",
			input: `a \\ b`,
			want:  `a <br> b`,
		},
		{
			name:  "break followed by allowed construct kept",
			input: `a\\frac b\\[2pt]c\\Text`,
			want:  `a\\frac b\\[2pt]c\\Text`,
		},
		{
			name:  "double break",
			input: `a\\\\b`,
			want:  `a<br><br>b`,
		},
		{
			name:  "inline formula preserved",
			input: `Text $x^2$ more \textbf{bold}`,
			want:  `Text $x^2$ more <strong>bold</strong>`,
		},
		{
			name:  "formula content never rewritten",
			input: `$\textbf{x} \\ y$ and \(\emph{z}\)`,
			want:  `$\textbf{x} \\ y$ and \(\emph{z}\)`,
		},
		{
			name:  "display formulas preserved",
			input: `$$a\\b$$ \[c\\d\] e\\f`,
			want:  `$$a\\b$$ \[c\\d\] e<br>f`,
		},
		{
			name:  "escaped dollar is not a delimiter",
			input: `5 \$ et \textbf{x}`,
			want:  `5 \$ et <strong>x</strong>`,
		},
		{
			name:  "formula inside list item",
			input: `\begin{itemize}\item $\frac{1}{2}\\x$\end{itemize}`,
			want:  `<ul class="list-disc ml-6 space-y-1"><li>$\frac{1}{2}\\x$</li></ul>`,
		},
		{
			name:  "private use characters in input preserved",
			input: "a\uE0100\uE011b \\textbf{c}",
			want:  "a\uE0100\uE011b <strong>c</strong>",
		},
		{
			name:  "existing HTML untouched",
			input: `<math-field data-q="1"></math-field>\newline`,
			want:  `<math-field data-q="1"></math-field><br>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := texnorm.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q)\n got: %q\nwant: %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Depth ceiling
// ---------------------------------------------------------------------------

func nestedSpacing(levels int, core string) string {
	return strings.Repeat(`\begin{spacing}{1.5}`, levels) + core + strings.Repeat(`\end{spacing}`, levels)
}

func TestNormalize_DepthCeiling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		maxDepth  int
		levels    int
		wantDivs  int
		wantInner string
	}{
		{
			name:      "default ceiling leaves innermost levels raw",
			maxDepth:  texnorm.DefaultMaxDepth,
			levels:    12,
			wantDivs:  11,
			wantInner: nestedSpacing(1, "core"),
		},
		{
			name:      "low ceiling",
			maxDepth:  2,
			levels:    5,
			wantDivs:  3,
			wantInner: nestedSpacing(2, "core"),
		},
		{
			name:      "below ceiling converts everything",
			maxDepth:  texnorm.DefaultMaxDepth,
			levels:    4,
			wantDivs:  4,
			wantInner: ">core<",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := texnorm.New(texnorm.WithMaxDepth(tt.maxDepth))
			got := n.Normalize(nestedSpacing(tt.levels, "core"))

			if c := strings.Count(got, `<div class="leading-relaxed space-y-2"`); c != tt.wantDivs {
				t.Errorf("containers = %d, want %d\noutput: %s", c, tt.wantDivs, got)
			}
			if !strings.Contains(got, tt.wantInner) {
				t.Errorf("output missing %q\noutput: %s", tt.wantInner, got)
			}
		})
	}
}

func TestNormalizeDepth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		depth int
		want  string
	}{
		{"above ceiling returns input", `\textbf{a}\\b`, texnorm.DefaultMaxDepth + 1, `\textbf{a}\\b`},
		{"at ceiling converts", `\textbf{a}`, texnorm.DefaultMaxDepth, `<strong>a</strong>`},
		{"negative depth treated as zero", `\textbf{a}`, -3, `<strong>a</strong>`},
		{"empty at any depth", "", 50, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := texnorm.NormalizeDepth(tt.input, tt.depth)
			if got != tt.want {
				t.Errorf("NormalizeDepth(%q, %d) = %q, want %q", tt.input, tt.depth, got, tt.want)
			}
		})
	}
}

func TestWithMaxDepth_PanicsOnNegative(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithMaxDepth(-1) did not panic")
		}
	}()
	texnorm.WithMaxDepth(-1)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	if got := texnorm.New().MaxDepth(); got != texnorm.DefaultMaxDepth {
		t.Errorf("MaxDepth() = %d, want %d", got, texnorm.DefaultMaxDepth)
	}
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func TestNormalize_ListItemCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		selector string
		want     int
	}{
		{"three items", `\begin{enumerate}\item a\item b\item c\end{enumerate}`, "ol > li", 3},
		{"blank segments skipped", "\\begin{itemize}\n\\item a\n\\item\n\\item   \n\\item b\n\\end{itemize}", "ul > li", 2},
		{"leading text counted", `\begin{enumerate}lead\item a\end{enumerate}`, "ol > li", 2},
		{"nested separators stay inside", `\begin{itemize}\item a\begin{enumerate}\item x\item y\end{enumerate}\end{itemize}`, "ul > li", 1},
		{"none", `\begin{itemize}\end{itemize}`, "ul > li", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := texnorm.Normalize(tt.input)
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
			if err != nil {
				t.Fatalf("parse output: %v", err)
			}
			if got := doc.Find(tt.selector).Length(); got != tt.want {
				t.Errorf("%s count = %d, want %d\noutput: %s", tt.selector, got, tt.want, out)
			}
		})
	}
}

func TestNormalize_FormulasByteIdentical(t *testing.T) {
	t.Parallel()

	formulas := []string{
		`$x^2 + \textbf{y}$`,
		`$$\begin{itemize}\item no\end{itemize}$$`,
		`\[\frac{a}{b} \\ \newline\]`,
		`\(\marginpar{z}\)`,
		`$\dfrac{1}{2}\\\hfill$`,
	}

	for _, f := range formulas {
		input := `\begin{itemize}\item Avant ` + f + ` après\item \textbf{b}\end{itemize}\newline ` + f
		got := texnorm.Normalize(input)
		if c := strings.Count(got, f); c != 2 {
			t.Errorf("Normalize(%q): formula %q found %d times, want 2\noutput: %s", input, f, c, got)
		}
	}
}

// A second pass is only stable for plain text. Structured input is not
// checked: its HTML output is not guaranteed to normalize to itself.
func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"plain text with $x$", "Calculer la somme.", ""} {
		once := texnorm.Normalize(in)
		if twice := texnorm.Normalize(once); once != twice {
			t.Errorf("Normalize not stable for %q\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestNormalize_ManyEnvironments(t *testing.T) {
	t.Parallel()

	const n = 4000
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, got string)
	}{
		{
			name:  "sequential lists",
			input: strings.Repeat(`\begin{itemize}\item a\end{itemize} `, n),
			check: func(t *testing.T, got string) {
				if c := strings.Count(got, "<ul "); c != n {
					t.Errorf("got %d lists, want %d", c, n)
				}
			},
		},
		{
			name:  "unclosed lists",
			input: strings.Repeat(`\begin{itemize}\item a `, n),
			check: func(t *testing.T, got string) {
				if strings.Contains(got, "<ul ") {
					t.Error("unclosed environments should not become lists")
				}
			},
		},
		{
			name:  "sequential spacing blocks",
			input: strings.Repeat(`\begin{spacing}{1.5}x\end{spacing}`, n),
			check: func(t *testing.T, got string) {
				if c := strings.Count(got, "<div "); c != n {
					t.Errorf("got %d blocks, want %d", c, n)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start := time.Now()
			got := texnorm.Normalize(tt.input)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("Normalize(%d KB) took %v", len(tt.input)/1024, elapsed)
			}
			tt.check(t, got)
		})
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	t.Parallel()

	const input = `\begin{spacing}{1.5}Intro\item $x$\item \textbf{y}\end{spacing}`
	want := texnorm.Normalize(input)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := texnorm.Normalize(input); got != want {
				t.Errorf("concurrent Normalize = %q, want %q", got, want)
			}
		}()
	}
	wg.Wait()
}
