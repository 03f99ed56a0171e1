// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyaanShaheer/cite-engine/internal/export"
	"github.com/AyaanShaheer/cite-engine/internal/form"
	"github.com/AyaanShaheer/cite-engine/internal/history"
	"github.com/AyaanShaheer/cite-engine/internal/request"
	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Fill in the citation form interactively",
	Long: `Interactive walks through the citation form field by field. The fields
offered depend on the chosen source type; for books the publication prompt
becomes the publisher. After each result you can copy, export, or save the
citation, or start a new one.`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	client := newClient(cmd)
	return interactiveSession(cmd.Context(), client, bufio.NewScanner(os.Stdin), os.Stdout)
}

func interactiveSession(ctx context.Context, client form.Generator, in *bufio.Scanner, out io.Writer) error {
	updates := make(chan struct{}, 1)
	notify := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}
	logf := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	}
	ctrl := form.New(client, notify, logf)
	defer ctrl.Close()

	for {
		if err := fillForm(ctrl, in, out); err != nil {
			return err
		}

		if err := ctrl.Submit(ctx); err != nil {
			fmt.Fprintf(out, "Cannot submit: %v\n\n", err)
			ctrl.DismissError()
			ctrl.Reset()
			continue
		}

		fmt.Fprint(out, "Generating...")
		for ctrl.State() == form.StateSubmitting {
			<-updates
		}
		fmt.Fprintln(out)

		switch ctrl.State() {
		case form.StateResult:
			citation, _ := ctrl.Result()
			fmt.Fprintln(out)
			export.WritePreview(out, *citation)
		case form.StateError:
			msg, transport := ctrl.Err()
			fmt.Fprintf(out, "\nError: %s\n", msg)
			if transport {
				fmt.Fprintln(out, "The citation service did not respond; check that it is running.")
			}
		}

		if done := resultMenu(ctx, ctrl, in, out); done {
			return nil
		}
		ctrl.Reset()
		fmt.Fprintln(out)
	}
}

// fillForm prompts for every field applicable to the chosen source type.
func fillForm(ctrl *form.Controller, in *bufio.Scanner, out io.Writer) error {
	sourceTypeStr := prompt(in, out, "Source type [journal_article]")
	if sourceTypeStr == "" {
		sourceTypeStr = string(types.SourceJournalArticle)
	}
	sourceType, err := request.ParseSourceType(sourceTypeStr)
	if err != nil {
		fmt.Fprintf(out, "%v\n", err)
		return fillForm(ctrl, in, out)
	}

	title := prompt(in, out, "Title")

	var authors []request.AuthorInput
	for {
		a := prompt(in, out, fmt.Sprintf("Author %d (blank to finish)", len(authors)+1))
		if a == "" {
			break
		}
		authors = append(authors, request.ParseAuthor(a))
	}

	styleStr := prompt(in, out, "Style [apa_7]")
	if styleStr == "" {
		styleStr = string(types.StyleAPA7)
	}

	ctrl.Edit(func(f *request.FormState) {
		f.SourceType = string(sourceType)
		f.Style = styleStr
		f.Title = title
		f.Authors = authors
	})

	for _, field := range request.FieldOrder(sourceType) {
		value := prompt(in, out, request.Label(field))
		if value == "" {
			continue
		}
		setFormField(ctrl, field, value)
	}
	return nil
}

// setFormField routes one prompted value into the form state. The shared
// publication/publisher input lands in FormState.Publication either way;
// the builder decides its payload field.
func setFormField(ctrl *form.Controller, field request.Field, value string) {
	ctrl.Edit(func(f *request.FormState) {
		switch field {
		case request.FieldYear:
			f.Year = value
		case request.FieldPublication, request.FieldPublisher:
			f.Publication = value
		case request.FieldVolume:
			f.Volume = value
		case request.FieldIssue:
			f.Issue = value
		case request.FieldPages:
			f.Pages = value
		case request.FieldDOI:
			f.DOI = value
		case request.FieldURL:
			f.URL = value
		case request.FieldAccessDate:
			f.AccessDate = value
		case request.FieldEdition:
			f.Edition = value
		case request.FieldPublisherLocation:
			f.PublisherLocation = value
		case request.FieldConferenceName:
			f.ConferenceName = value
		case request.FieldConferenceLocation:
			f.ConferenceLocation = value
		case request.FieldInstitution:
			f.Institution = value
		case request.FieldDegreeType:
			f.DegreeType = value
		case request.FieldDuration:
			f.Duration = value
		case request.FieldProducer:
			f.Producer = value
		}
	})
}

// resultMenu offers the post-submission actions. Returns true to quit.
func resultMenu(ctx context.Context, ctrl *form.Controller, in *bufio.Scanner, out io.Writer) bool {
	for {
		choice := prompt(in, out, "\n[c]opy  [e]xport  [s]ave  [n]ew  [q]uit")
		switch strings.ToLower(choice) {
		case "c":
			if ctrl.CopyCitation(clipboardWrite) {
				fmt.Fprintln(out, "Copied to clipboard.")
			} else {
				fmt.Fprintln(out, "Nothing copied.")
			}
		case "e":
			exportResult(ctrl, in, out)
		case "s":
			saveResult(ctx, ctrl, out)
		case "n", "":
			return false
		case "q":
			return true
		}
	}
}

func exportResult(ctrl *form.Controller, in *bufio.Scanner, out io.Writer) {
	citation, meta := ctrl.Result()
	if citation == nil {
		fmt.Fprintln(out, "No citation to export.")
		return
	}

	format, err := export.ParseFormat(prompt(in, out, "Format (text/bibtex/ris/csl) [text]"))
	if err != nil {
		fmt.Fprintf(out, "%v\n", err)
		return
	}
	path := prompt(in, out, "File")
	if path == "" {
		fmt.Fprintln(out, "No file given.")
		return
	}
	if ext := export.Extension(format); !strings.HasSuffix(path, ext) {
		path += ext
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(out, "Cannot create %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if err := export.Write(f, export.Record{Citation: *citation, Metadata: meta}, format); err != nil {
		fmt.Fprintf(out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Exported to %s\n", path)
}

func saveResult(ctx context.Context, ctrl *form.Controller, out io.Writer) {
	citation, meta := ctrl.Result()
	if citation == nil {
		fmt.Fprintln(out, "No citation to save.")
		return
	}

	store, err := history.NewStore(historyConfig())
	if err != nil {
		fmt.Fprintf(out, "History store unavailable: %v\n", err)
		return
	}
	defer store.Close()

	id, err := store.Save(ctx, *citation, meta)
	if err != nil {
		fmt.Fprintf(out, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Saved to history (ID %d)\n", id)
}

func prompt(in *bufio.Scanner, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

// clipboardWrite pipes text to the first available clipboard tool.
func clipboardWrite(text string) error {
	for _, tool := range [][]string{
		{"pbcopy"},
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
	} {
		if _, err := exec.LookPath(tool[0]); err != nil {
			continue
		}
		cmd := exec.Command(tool[0], tool[1:]...)
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
	return fmt.Errorf("no clipboard tool found (pbcopy, wl-copy, or xclip)")
}
