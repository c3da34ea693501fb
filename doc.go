// Package exrender turns generated math exercises into printable pages.
//
// Exercise generators emit their body and correction in a LaTeX-like markup
// (\textbf, \begin{itemize}, \\, \marginpar ...) with $...$ formulas and
// HTML answer fields mixed in. exrender normalizes that markup to HTML,
// builds a standalone page around it, and prints the page to PDF with
// headless Chrome once KaTeX has typeset the formulas.
//
// # Quick Start
//
//	r, err := exrender.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	ex, err := exrender.LoadExercise("6C10.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.Render(ctx, exrender.Input{Exercise: ex})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("6C10.pdf", result.PDF, 0644)
//
// Use Input.HTMLOnly to skip PDF generation, and Renderer.Normalize to
// convert a markup fragment on its own.
//
// # Rendering Pipeline
//
//  1. Markup normalization: inline styles, multicols, lists, spacing,
//     skips, margin notes, literal commands and residual line breaks
//  2. Answer fields: the first field gets autofocus, all are listed
//  3. Optional blocks: correction, answer feedback, parameter panel and
//     highlighted source
//  4. Page assembly from html/template sets, then CSS injection
//  5. PDF printing via Chrome (go-rod), after formulas are rendered
//
// # Answers and Parameters
//
// CheckAnswers scores submitted answers against the exercise's
// autoCorrection entries. Parameters lists the besoinFormulaire*
// descriptors with their current values; ParseOverrides and
// Exercise.ApplyOverrides feed a submitted parameter form back.
//
// # Catalogs
//
// A Catalog indexes exercises by code and walks them with a wrapping
// "next" pointer. Codes are resolved against a CodeRegistry so that a
// listed "eC10" at level "6e" selects the generator's "6C10".
//
// # Parallel Rendering
//
// RendererPool holds up to n renderers, each with its own browser.
// ResolvePoolSize picks n from GOMAXPROCS when no explicit count is given.
//
// # Styles and Templates
//
// Built-in styles are "default" (screen) and "print". WithStyle accepts a
// style name, a CSS file path or raw CSS. WithAssetPath points at a
// directory with styles/ and templates/ that overrides the built-ins.
//
// # Error Handling
//
// Errors wrap sentinels that can be checked with errors.Is:
//
//	if errors.Is(err, exrender.ErrFormulaRender) {
//	    // KaTeX did not finish in time or could not be loaded
//	}
package exrender
