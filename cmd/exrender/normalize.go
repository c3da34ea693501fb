package main

import (
	"fmt"
	"io"
	"os"

	exrender "github.com/alnah/go-exrender"
	"github.com/alnah/go-exrender/internal/config"
	"github.com/alnah/go-exrender/internal/texnorm"
)

// stdinArg names standard input on the command line.
const stdinArg = "-"

// runNormalize converts markup from a file or standard input to HTML.
func runNormalize(args []string, env *Environment) error {
	flags, positional, err := parseNormalizeFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if flags.maxDepth < 0 || flags.maxDepth > config.MaxDepth {
		return fmt.Errorf("%w: --max-depth must be between 0 and %d, got %d", ErrUsage, config.MaxDepth, flags.maxDepth)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: normalize takes one input, got %d", ErrUsage, len(positional))
	}

	data, err := readInput(positional, env.Stdin)
	if err != nil {
		return err
	}

	markup := string(data)
	if flags.field != "" {
		if markup, err = documentField(data, flags.field); err != nil {
			return err
		}
	}

	var opts []texnorm.Option
	if flags.maxDepth > 0 {
		opts = append(opts, texnorm.WithMaxDepth(flags.maxDepth))
	}
	html := texnorm.New(opts...).Normalize(markup)

	if flags.output == "" {
		fmt.Fprintln(env.Stdout, html)
		return nil
	}
	// #nosec G306 -- HTML fragments are meant to be readable
	if err := os.WriteFile(flags.output, []byte(html+"\n"), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// readInput reads the single positional input, or stdin when it is absent
// or "-".
func readInput(positional []string, stdin io.Reader) ([]byte, error) {
	if len(positional) == 0 || positional[0] == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(positional[0]) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return data, nil
}

// documentField decodes an exercise document and returns one markup field.
func documentField(data []byte, field string) (string, error) {
	ex, err := exrender.ParseExercise(data)
	if err != nil {
		return "", err
	}
	switch field {
	case "contenu":
		return ex.Content, nil
	case "contenuCorrection":
		return ex.Correction, nil
	default:
		return "", fmt.Errorf("%w: --field must be contenu or contenuCorrection, got %q", ErrUsage, field)
	}
}
