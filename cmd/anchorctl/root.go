package main

import (
	"github.com/spf13/cobra"

	"github.com/rook-computer/anchorlines/internal/profile"
)

type rootOptions struct {
	profilesDir string
}

func (o *rootOptions) store() *profile.Store { return profile.NewStore(o.profilesDir) }

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "anchorctl",
		Short: "Manage anchorlines crosshair profiles offline",
		Long: `anchorctl edits the profile directory used by the anchorlines overlay
without the overlay running: list, create, delete, share and import profiles,
and render a profile to a PNG preview.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.profilesDir, "profiles", profile.DefaultDir, "profile directory")

	root.AddCommand(newProfilesCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	return root
}
