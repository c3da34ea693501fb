package main

import (
	"fmt"
	"maps"

	exrender "github.com/alnah/go-exrender"
)

// runCheck scores answers against an exercise's autoCorrection entries.
func runCheck(args []string, env *Environment) error {
	flags, positional, err := parseCheckFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: check needs an exercise document", ErrNoInput)
	}

	ex, err := exrender.LoadExercise(positional[0])
	if err != nil {
		return err
	}

	answers, err := collectAnswers(flags)
	if err != nil {
		return err
	}

	score := exrender.CheckAnswers(ex, answers)
	if flags.html {
		fmt.Fprintln(env.Stdout, score.FeedbackHTML())
		return nil
	}
	printScore(score, flags.common.quiet, env)
	return nil
}

// collectAnswers merges the answers document with --answer pairs.
// Pairs win over the document.
func collectAnswers(flags *checkFlags) (map[int]string, error) {
	answers := make(map[int]string)
	if flags.answers != "" {
		doc, err := loadAnswers(flags.answers)
		if err != nil {
			return nil, err
		}
		maps.Copy(answers, doc)
	}

	pairs, err := parseAnswerPairs(flags.answer)
	if err != nil {
		return nil, err
	}
	maps.Copy(answers, pairs)

	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: give answers with --answer or --answers", ErrUsage)
	}
	return answers, nil
}

// printScore writes a plain-text report.
func printScore(s *exrender.Score, quiet bool, env *Environment) {
	fmt.Fprintf(env.Stdout, "Score: %d/%d\n", s.Correct, s.Total)
	if quiet {
		return
	}
	for _, q := range s.Questions {
		mark := "FAIL"
		if q.Correct {
			mark = "OK  "
		}
		fmt.Fprintf(env.Stdout, "  %s Question %d: %q, expected %q\n", mark, q.Number(), q.Answer, q.Expected.Display)
	}
}
