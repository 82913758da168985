package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fmtFix bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Check source formatting, or rewrite files with --fix",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := "-l"
		if fmtFix {
			mode = "-w"
		}
		return compose.RunCommand(cmd.Context(), "gofmt", mode, ".")
	},
}

var vetCmd = &cobra.Command{
	Use:   "vet",
	Short: "Run go vet",
	RunE: func(cmd *cobra.Command, args []string) error {
		return compose.RunCommand(cmd.Context(), "go", "vet", "./...")
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Run golangci-lint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return compose.RunCommand(cmd.Context(), "golangci-lint", "run", "./...")
	},
}

var (
	testVerbose  bool
	testFailfast bool
	testRun      string
)

var unittestCmd = &cobra.Command{
	Use:   "unittest",
	Short: "Run the unit tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitTests(cmd)
	},
}

// tests is the aggregate QA gate: formatting, vet, lint, then the
// unit tests, stopping at the first failure.
var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "Run all linters and tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking formatting...")
		if err := compose.RunCommand(cmd.Context(), "gofmt", "-l", "."); err != nil {
			return err
		}
		fmt.Println("Running go vet...")
		if err := compose.RunCommand(cmd.Context(), "go", "vet", "./..."); err != nil {
			return err
		}
		fmt.Println("Running golangci-lint...")
		if err := compose.RunCommand(cmd.Context(), "golangci-lint", "run", "./..."); err != nil {
			return err
		}
		fmt.Println("Running unit tests...")
		return runUnitTests(cmd)
	},
}

func runUnitTests(cmd *cobra.Command) error {
	testArgs := []string{"test", "./..."}
	if testVerbose {
		testArgs = append(testArgs, "-v")
	}
	if testFailfast {
		testArgs = append(testArgs, "-failfast")
	}
	if testRun != "" {
		testArgs = append(testArgs, "-run", testRun)
	}
	return compose.RunCommand(cmd.Context(), "go", testArgs...)
}

var docsBuild bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Serve the documentation locally, or build it with --build",
	RunE: func(cmd *cobra.Command, args []string) error {
		if docsBuild {
			return compose.RunCommand(cmd.Context(), "mkdocs", "build", "--no-directory-urls", "--strict")
		}
		fmt.Println("Serving docs on http://localhost:8001 ...")
		return compose.RunCommand(cmd.Context(), "mkdocs", "serve", "--dev-addr", "0.0.0.0:8001")
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtFix, "fix", false, "rewrite files instead of listing them")
	for _, c := range []*cobra.Command{unittestCmd, testsCmd} {
		c.Flags().BoolVarP(&testVerbose, "verbose", "v", false, "verbose test output")
		c.Flags().BoolVar(&testFailfast, "failfast", false, "stop on the first test failure")
		c.Flags().StringVar(&testRun, "run", "", "run only tests matching this pattern")
	}
	docsCmd.Flags().BoolVar(&docsBuild, "build", false, "build the static site with strict checks")
	rootCmd.AddCommand(fmtCmd, vetCmd, lintCmd, unittestCmd, testsCmd, docsCmd)
}
