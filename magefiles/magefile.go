//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Check runs the full verification suite.
func Check(c context.Context) error {
	fmt.Println("Checking...")

	for _, cmd := range []func(context.Context) error{
		Tidy,   // clean up the module dependencies
		Test,   // verify the stuff you explicitly care about works
		Lint,   // make it follow the standards you care about
		Mutate, // check for untested code
	} {
		err := cmd(c)
		if err != nil {
			return fmt.Errorf("unable to finish checking: %w", err)
		}
	}

	return nil
}

// Tidy tidies up go.mod.
func Tidy(c context.Context) error {
	fmt.Println("Tidying go.mod...")
	return run(c, "go", "mod", "tidy")
}

// Lint lints the codebase.
func Lint(c context.Context) error {
	fmt.Println("Linting...")
	return run(c, "golangci-lint", "run")
}

// Test runs the unit tests with coverage.
func Test(c context.Context) error {
	fmt.Println("Running unit tests...")

	return run(
		c,
		"go",
		"test",
		"-timeout=30s",
		"-race",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
		"./...",
	)
}

// TestForFail runs the unit tests for overall pass/fail, the way the
// mutation tester invokes them.
func TestForFail(c context.Context) error {
	fmt.Println("Running unit tests for overall pass/fail...")

	return run(
		c,
		"go",
		"test",
		"-timeout=30s",
		"./...",
		"-failfast",
		"-shuffle=on",
		"-race",
	)
}

// Mutate runs the mutation tests.
func Mutate(c context.Context) error {
	fmt.Println("Running mutation tests...")

	for _, cmd := range []func(context.Context) error{
		TestForFail,
		func(c context.Context) error {
			return run(
				c,
				"go",
				"test",
				"-tags=mutation",
				"./...",
				"-run=TestMutation",
			)
		},
	} {
		err := cmd(c)
		if err != nil {
			return fmt.Errorf("unable to finish checking: %w", err)
		}
	}

	return nil
}

// Clean removes generated artifacts.
func Clean() {
	fmt.Println("Cleaning...")
	os.Remove("coverage.out")
}

func run(c context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(c, command, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
