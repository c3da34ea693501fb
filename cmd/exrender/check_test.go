package main

import (
	"context"
	"strings"
	"testing"
)

func TestRunCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeFile(t, dir, "6C10.json", sampleExercise)
	answers := writeFile(t, dir, "answers.yaml", "\"0\": \"4\"\n")

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "correct pair",
			args: []string{doc, "-a", "0= 5 "},
			want: []string{"Score: 1/1", `OK   Question 1: "5", expected "5"`},
		},
		{
			name: "answers document",
			args: []string{doc, "--answers", answers},
			want: []string{"Score: 0/1", `FAIL Question 1: "4", expected "5"`},
		},
		{
			name: "pair overrides document",
			args: []string{doc, "--answers", answers, "--answer", "0=5"},
			want: []string{"Score: 1/1"},
		},
		{
			name:    "quiet",
			args:    []string{doc, "-q", "-a", "0=5"},
			want:    []string{"Score: 1/1"},
			notWant: []string{"Question"},
		},
		{
			name: "html feedback",
			args: []string{doc, "--html", "-a", "0=5"},
			want: []string{"<strong>1/1</strong>", "Question 1"},
		},
		{
			name: "unchecked question",
			args: []string{doc, "-a", "3=5"},
			want: []string{"Score: 0/0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("")
			args := append([]string{"exrender", "check"}, tt.args...)
			if code := runMain(context.Background(), args, env); code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout.String())
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(stdout.String(), notWant) {
					t.Errorf("stdout should not contain %q:\n%s", notWant, stdout.String())
				}
			}
		})
	}
}

func TestRunCheck_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeFile(t, dir, "6C10.json", sampleExercise)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no document", []string{"-a", "0=5"}, ExitIO},
		{"no answers", []string{doc}, ExitUsage},
		{"bad pair", []string{doc, "-a", "first=5"}, ExitUsage},
		{"missing answers file", []string{doc, "--answers", "nope.yaml"}, ExitIO},
		{"invalid document", []string{writeFile(t, dir, "bad.json", "[1]"), "-a", "0=5"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv("")
			args := append([]string{"exrender", "check"}, tt.args...)
			if got := runMain(context.Background(), args, env); got != tt.want {
				t.Errorf("exit code = %d, want %d; stderr:\n%s", got, tt.want, stderr.String())
			}
		})
	}
}
