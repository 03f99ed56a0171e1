// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the citation styles the service supports",
	RunE:  runStyles,
}

var sourceTypesCmd = &cobra.Command{
	Use:   "source-types",
	Short: "List the source types the service supports",
	RunE:  runSourceTypes,
}

func init() {
	stylesCmd.Flags().Bool("json", false, "output as JSON")
	sourceTypesCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(sourceTypesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	client := newClient(cmd)
	styles, err := client.Styles(cmd.Context())
	if err != nil {
		connectionHint(err)
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(styles)
	}

	fmt.Printf("%-12s  %-22s  %s\n", "Code", "Name", "Description")
	fmt.Println(strings.Repeat("-", 80))
	for _, s := range styles {
		fmt.Printf("%-12s  %-22s  %s\n", s.Code, s.Name, s.Description)
	}
	return nil
}

func runSourceTypes(cmd *cobra.Command, args []string) error {
	client := newClient(cmd)
	sourceTypes, err := client.SourceTypes(cmd.Context())
	if err != nil {
		connectionHint(err)
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sourceTypes)
	}

	fmt.Printf("%-18s  %s\n", "Code", "Name")
	fmt.Println(strings.Repeat("-", 50))
	for _, st := range sourceTypes {
		fmt.Printf("%-18s  %s\n", st.Code, st.Name)
	}
	return nil
}
