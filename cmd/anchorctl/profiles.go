package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rook-computer/anchorlines/internal/panel"
	"github.com/rook-computer/anchorlines/internal/profile"
	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/scheme"
)

func newProfilesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile", "p"},
		Short:   "List and edit saved profiles",
	}
	cmd.AddCommand(
		newProfilesListCmd(opts),
		newProfilesShowCmd(opts),
		newProfilesCreateCmd(opts),
		newProfilesSetCmd(opts),
		newProfilesDeleteCmd(opts),
		newProfilesExportCmd(opts),
		newProfilesImportCmd(opts),
	)
	return cmd
}

func newProfilesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles in the order the overlay cycles through them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.store().List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No profiles.")
				return nil
			}
			for _, s := range list {
				fmt.Fprintf(out, "%-20s h:%dpx %s  v:%dpx %s\n", s.Name,
					s.HLineWidth, scheme.HexColor(s.HLineColor),
					s.VLineWidth, scheme.HexColor(s.VLineColor))
			}
			return nil
		},
	}
}

func newProfilesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a profile as editable JSON fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadProfile(opts, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(panel.FieldsFromScheme(s))
		},
	}
}

func newProfilesCreateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile with the default look",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("profile name is empty")
			}
			store := opts.store()
			if exists, err := profileExists(opts, name); err != nil {
				return err
			} else if exists {
				return fmt.Errorf("profile %q already exists", name)
			}
			if err := store.Save(scheme.Default().WithName(name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q\n", name)
			return nil
		},
	}
}

func newProfilesSetCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Replace a profile's look with JSON fields (as printed by show)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := loadProfile(opts, args[0])
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			fields := panel.FieldsFromScheme(old)
			dec := json.NewDecoder(r)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&fields); err != nil {
				return fmt.Errorf("decode fields: %w", err)
			}
			s, err := fields.Scheme()
			if err != nil {
				return err
			}
			if err := opts.store().Save(s.WithName(old.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", old.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON fields file, - for stdin")
	return cmd
}

func newProfilesDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := loadProfile(opts, name); err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete profile %q?", name)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := opts.store().Delete(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func newProfilesExportCmd(opts *rootOptions) *cobra.Command {
	var qrPath string
	var qrSize int
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Print a profile's share string, optionally as a QR code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadProfile(opts, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), scheme.ShareString(s))
			if qrPath == "" {
				return nil
			}
			img, err := render.ProfileQRCode(s, qrSize)
			if err != nil {
				return err
			}
			return writePNGFile(qrPath, img)
		},
	}
	cmd.Flags().StringVar(&qrPath, "qr", "", "also write a QR code PNG to this path")
	cmd.Flags().IntVar(&qrSize, "qr-size", 256, "QR code size in pixels")
	return cmd
}

func newProfilesImportCmd(opts *rootOptions) *cobra.Command {
	var name string
	var force bool
	cmd := &cobra.Command{
		Use:   "import <share-string>",
		Short: "Save a profile from a share string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scheme.ParseShareString(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				s = s.WithName(name)
			}
			if strings.TrimSpace(s.Name) == "" {
				return errors.New("shared profile has no name; pass --name")
			}
			if !force {
				if exists, err := profileExists(opts, s.Name); err != nil {
					return err
				} else if exists {
					return fmt.Errorf("profile %q already exists (use --force to overwrite)", s.Name)
				}
			}
			if err := opts.store().Save(s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q\n", s.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "save under this name instead of the shared one")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")
	return cmd
}

func loadProfile(opts *rootOptions, name string) (scheme.Scheme, error) {
	s, err := opts.store().Load(name)
	if errors.Is(err, os.ErrNotExist) {
		return scheme.Scheme{}, fmt.Errorf("profile %q not found", name)
	}
	return s, err
}

// profileExists reports whether saving name would replace a stored profile,
// either the same name or one that maps to the same file.
func profileExists(opts *rootOptions, name string) (bool, error) {
	list, err := opts.store().List()
	if err != nil {
		return false, err
	}
	for _, s := range list {
		if profile.SameFile(s.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// confirm prompts on out and reads a yes/no answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func writePNGFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
