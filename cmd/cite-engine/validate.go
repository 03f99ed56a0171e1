// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [citation...]",
	Short: "Check an existing citation string against a style",
	Long: `Validate sends a citation string to the service, which reports whether
it conforms to the chosen style, lists the problems, and suggests a
corrected version.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("style", "", "citation style to validate against (default apa_7)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	citation := strings.TrimSpace(strings.Join(args, " "))
	if citation == "" {
		return fmt.Errorf("provide the citation text to validate")
	}

	style, err := styleFlag(cmd)
	if err != nil {
		return err
	}

	client := newClient(cmd)
	report, err := client.Validate(cmd.Context(), citation, style)
	if err != nil {
		connectionHint(err)
		return err
	}

	if report.IsValid {
		fmt.Printf("Valid %s citation.\n", style)
	} else {
		fmt.Printf("Not a valid %s citation.\n", style)
	}

	if len(report.Errors) > 0 {
		fmt.Println("\nProblems:")
		for _, e := range report.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if len(report.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range report.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	if report.CorrectedCitation != "" && report.CorrectedCitation != citation {
		fmt.Printf("\nCorrected:\n%s\n", report.CorrectedCitation)
	}
	return nil
}
