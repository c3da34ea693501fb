// Package process cleans up the browser processes started for PDF output.
package process
