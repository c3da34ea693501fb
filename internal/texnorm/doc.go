// Package texnorm converts the LaTeX-like markup emitted by exercise
// generators into an HTML fragment that can be injected into a page as-is.
//
// # Pipeline
//
// Each call runs a fixed sequence of stages over the markup. Later stages see
// the output of earlier ones:
//
//  1. Inline styles: \textbf{..}, \textit{..}, \emph{..}
//  2. Multi-column blocks: \begin{multicols}{N}..\end{multicols}
//  3. Lists: enumerate, then itemize
//  4. Spacing blocks: \begin{spacing}{RATIO}..\end{spacing}
//  5. Vertical skips: \smallskip, \medskip, \bigskip
//  6. Margin notes: \marginpar{..}
//  7. Literal directives: \newline, \newpage, \noindent, \hfill,
//     \footnotesize, stray \item, \columnbreak
//  8. Residual \\ line breaks
//
// Stages 2, 3, 4 and 6 normalize the fragments they extract (list items,
// column bodies, spacing bodies, margin notes) with a fresh run one level
// deeper. Once the depth passes the configured ceiling the fragment is
// returned untouched, so every call terminates.
//
// # Formulas
//
// Formula regions delimited by $..$, $$..$$, \(..\) and \[..\] are never
// rewritten. They are set aside before the first stage and restored after the
// last one, so the formula renderer finds them byte-for-byte as the generator
// wrote them.
//
// The package has no state shared between calls and is safe for concurrent
// use.
package texnorm
