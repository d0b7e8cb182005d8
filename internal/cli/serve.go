package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/server"
)

func NewServe(root *Root) *cobra.Command {
	s := &Serve{root: root}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generation, lint and preview over HTTP",
		Args:  cobra.NoArgs,
		RunE:  s.Run,
	}
	cmd.Flags().StringVar(&s.Listen, "listen", "", "listen address (default from config)")
	return cmd
}

type Serve struct {
	Listen string

	root *Root
}

func (s *Serve) Run(cmd *cobra.Command, _ []string) error {
	registry, err := s.root.registry("")
	if err != nil {
		return err
	}
	addr := s.Listen
	if addr == "" {
		addr = s.root.cfg.Listen
	}
	return server.Run(cmd.Context(), server.Config{
		Addr:     addr,
		Registry: registry,
		Logger:   s.root.logger,
	})
}
