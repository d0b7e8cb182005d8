package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func NewForms(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "forms",
		Aliases: []string{"form"},
		Short:   "Manage saved forms",
		Args:    cobra.NoArgs,
	}
	f := &Forms{root: root}
	newCmd := &cobra.Command{
		Use:   "new [flags] NAME",
		Short: "Start a new form and make it current",
		Args:  cobra.ExactArgs(1),
		RunE:  f.New,
	}
	newCmd.Flags().StringVar(&f.Description, "description", "", "form description")

	show := &cobra.Command{
		Use:   "show [flags] [ID]",
		Short: "Print a saved form, the current one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE:  f.Show,
	}
	show.Flags().StringVarP(&f.Format, "format", "f", "", "output format (default from config)")

	cmd.AddCommand(
		&cobra.Command{Use: "list", Aliases: []string{"ls"}, Short: "List saved forms", Args: cobra.NoArgs, RunE: f.List},
		newCmd,
		&cobra.Command{Use: "save", Short: "Save the current form", Args: cobra.NoArgs, RunE: f.Save},
		&cobra.Command{Use: "load ID", Short: "Make a saved form current", Args: cobra.ExactArgs(1), RunE: f.Load},
		&cobra.Command{Use: "delete ID", Aliases: []string{"rm"}, Short: "Delete a saved form", Args: cobra.ExactArgs(1), RunE: f.Delete},
		show,
	)
	return cmd
}

type Forms struct {
	Description string
	Format      string

	root *Root
}

func (f *Forms) List(cmd *cobra.Command, _ []string) error {
	session, err := f.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	current := session.Store.CurrentFormID()
	w := tabwriter.NewWriter(f.root.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFIELDS\tSAVED")
	for _, saved := range session.Store.SavedForms() {
		id := saved.ID
		if id == current {
			id += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", id, saved.Name, len(saved.Data.Fields), saved.SavedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func (f *Forms) New(cmd *cobra.Command, args []string) error {
	session, err := f.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	session.Store.NewForm()
	session.Store.UpdateFormMeta(args[0], f.Description)
	saved := session.Store.SaveForm()
	if err := session.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(f.root.out(), saved.ID)
	return nil
}

func (f *Forms) Save(cmd *cobra.Command, _ []string) error {
	session, err := f.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	saved := session.Store.SaveForm()
	if err := session.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(f.root.out(), saved.ID)
	return nil
}

func (f *Forms) Load(cmd *cobra.Command, args []string) error {
	session, err := f.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Store.LoadForm(args[0]); err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}
	return session.Save(cmd.Context())
}

func (f *Forms) Delete(cmd *cobra.Command, args []string) error {
	session, err := f.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Store.DeleteSavedForm(args[0]); err != nil {
		return fmt.Errorf("delete %s: %w", args[0], err)
	}
	return session.Save(cmd.Context())
}

func (f *Forms) Show(cmd *cobra.Command, args []string) error {
	session, err := f.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	def := session.Store.Form()
	if len(args) == 1 && args[0] != session.Store.CurrentFormID() {
		if err := session.Store.LoadForm(args[0]); err != nil {
			return fmt.Errorf("show %s: %w", args[0], err)
		}
		def = session.Store.Form()
	}

	registry, err := f.root.registry("")
	if err != nil {
		return err
	}
	format := f.Format
	if format == "" {
		format = f.root.cfg.DefaultFormat
	}
	out, err := registry.Generate(def, format)
	if err != nil {
		return err
	}
	return writeText(f.root.out(), out)
}
