// Package pipeline builds exercise pages from normalized markup.
//
// The stages are:
//   - Markdown to HTML conversion of author comments via Goldmark
//   - syntax highlighting of the raw generator markup via Chroma
//   - relative path rewriting and answer-field handling on HTML fragments
//   - page assembly from html/template sources
//   - CSS injection into the assembled page
//
// Markup normalization lives in internal/texnorm and PDF printing in the
// root exrender package. This package only deals with HTML.
package pipeline
