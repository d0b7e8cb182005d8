package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/lint"
)

func NewLint(root *Root) *cobra.Command {
	l := &Lint{root: root}
	cmd := &cobra.Command{
		Use:   "lint [flags] SOURCE",
		Short: "Check a form definition for structural problems",
		Long:  "Check a form definition for structural problems. Exits non-zero when any error is found; warnings alone pass.",
		Args:  cobra.ExactArgs(1),
		RunE:  l.Run,
	}
	cmd.Flags().BoolVar(&l.JSON, "json", false, "print the result as JSON")
	return cmd
}

type Lint struct {
	JSON bool

	root *Root
}

func (l *Lint) Run(cmd *cobra.Command, args []string) error {
	def, err := l.root.loadDefinition(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	result := lint.Run(def)

	if l.JSON {
		enc := json.NewEncoder(l.root.out())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if len(result.Issues) == 0 {
		fmt.Fprintln(l.root.out(), "ok")
	} else {
		w := tabwriter.NewWriter(l.root.out(), 0, 4, 2, ' ', 0)
		for _, issue := range result.Issues {
			subject := issue.Field
			if issue.Validator != "" {
				subject = issue.Validator
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", issue.Severity, issue.Code, subject, issue.Message)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if !result.Valid {
		return ErrLintFailed
	}
	return nil
}
