package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/jobfit-kit/internal/types"
	"github.com/spf13/cobra"
)

func newProfileCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit the stored profile",
	}
	cmd.AddCommand(
		newProfileShowCmd(o),
		newProfileSetTextCmd(o),
		newProfileSetRoleCmd(o),
		newProfileUploadCmd(o),
		newProfileRemoveCmd(o),
		newProfileExtractCmd(o),
		newProfileSetInfoCmd(o),
		newProfileMoveSectionCmd(o),
	)
	return cmd
}

// printProfile writes the profile as a box in verbose mode, JSON otherwise
func (e *env) printProfile(profile types.UserProfile) error {
	if e.cfg.Verbose {
		e.printer.PrintProfile(profile)
		return nil
	}
	return e.printJSON(profile)
}

func newProfileShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.printProfile(e.app(cmd.Context()).Profile())
		},
	}
}

func newProfileSetTextCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-text [TEXT|-]",
		Short: "Set the resume text, replacing any uploaded file",
		Long:  "Set the resume text. Pass - to read it from standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.printProfile(e.app(cmd.Context()).SetResumeText(cmd.Context(), text))
		},
	}
}

func newProfileSetRoleCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role ROLE",
		Short: "Set the target role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.printProfile(e.app(cmd.Context()).SetTargetRole(cmd.Context(), args[0]))
		},
	}
}

func newProfileUploadCmd(o *rootOptions) *cobra.Command {
	var mediaType string
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a PDF, DOCX or TXT resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read resume: %w", err)
			}

			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			profile, err := e.app(cmd.Context()).UploadResume(cmd.Context(), filepath.Base(args[0]), mediaType, data)
			if err != nil {
				return err
			}
			return e.printProfile(profile)
		},
	}
	cmd.Flags().StringVar(&mediaType, "media-type", "", "Media type of the file when the extension is not enough")
	return cmd
}

func newProfileRemoveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the resume text, file and extracted analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.printProfile(e.app(cmd.Context()).RemoveResume(cmd.Context()))
		},
	}
}

func newProfileExtractCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract a structured resume with the AI model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			resume, err := e.app(cmd.Context()).ExtractResume(cmd.Context())
			if err != nil {
				return err
			}
			if e.cfg.Verbose {
				e.printer.PrintResumeAnalysis(resume)
				return nil
			}
			return e.printJSON(resume)
		},
	}
}

func newProfileSetInfoCmd(o *rootOptions) *cobra.Command {
	var info types.PersonalInfo
	cmd := &cobra.Command{
		Use:   "set-info",
		Short: "Edit the personal info of the extracted resume",
		Long:  "Edit the personal info of the extracted resume. Only the flags given are changed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			a := e.app(cmd.Context())
			current := types.PersonalInfo{}
			if analysis := a.Profile().Analysis; analysis != nil {
				current = analysis.PersonalInfo
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				current.Name = info.Name
			}
			if flags.Changed("email") {
				current.Email = info.Email
			}
			if flags.Changed("phone") {
				current.Phone = info.Phone
			}
			if flags.Changed("location") {
				current.Location = info.Location
			}
			if flags.Changed("link") {
				current.Links = info.Links
			}

			profile, err := a.UpdatePersonalInfo(cmd.Context(), current)
			if err != nil {
				return err
			}
			return e.printProfile(profile)
		},
	}
	cmd.Flags().StringVar(&info.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&info.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&info.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&info.Location, "location", "", "Location")
	cmd.Flags().StringSliceVar(&info.Links, "link", nil, "Profile link (repeatable); replaces all links")
	return cmd
}

func newProfileMoveSectionCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move-section FROM TO",
		Short: "Move a resume section from one position to another",
		Long:  "Move a resume section. Positions are zero-based indexes into the current section order.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid FROM position %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid TO position %q", args[1])
			}

			e, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			profile, err := e.app(cmd.Context()).MoveSection(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if !e.cfg.Verbose {
				return e.printJSON(profile.SectionOrder)
			}
			_, err = fmt.Fprintln(e.out, strings.Join(profile.SectionOrder, " → "))
			return err
		},
	}
}
