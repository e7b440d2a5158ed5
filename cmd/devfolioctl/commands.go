package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/service"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard's verified profile ids and creator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := a.directory.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if a.opts.output == "json" {
				return writeJSON(a.out, dash)
			}
			rows := make([][]string, 0, len(dash.ProfileIDs))
			for i, id := range dash.ProfileIDs {
				rows = append(rows, []string{strconv.Itoa(i + 1), id})
			}
			fmt.Fprintln(a.out, titleStyle.Render("creator "+dash.Creator))
			return writeTable(a.out, []string{"#", "PROFILE"}, rows)
		},
	}
}

func (a *app) profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List verified profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := a.directory.Profiles(cmd.Context())
			if err != nil {
				return err
			}
			if a.opts.output == "json" {
				return writeJSON(a.out, profiles)
			}
			return writeTable(a.out, profileHeaders, profileRows(profiles))
		},
	}
}

func (a *app) profileCmd() *cobra.Command {
	var owner, username string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show one developer with projects and certificates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handle := owner
			if handle == "" {
				handle = username
			}
			if handle == "" {
				return errors.New("one of --owner or --username is required")
			}

			dev, err := a.directory.Developer(cmd.Context(), handle)
			if errors.Is(err, service.ErrProfileNotFound) {
				return fmt.Errorf("no verified profile for %q", handle)
			}
			if err != nil {
				return err
			}
			if a.opts.output == "json" {
				return writeJSON(a.out, dev)
			}

			fmt.Fprintln(a.out, titleStyle.Render(dev.Profile.Name+" @"+dev.Profile.Username))
			if err := writeTable(a.out, profileHeaders, profileRows([]domain.Profile{dev.Profile})); err != nil {
				return err
			}
			fmt.Fprintln(a.out, titleStyle.Render("projects"))
			if err := writeTable(a.out, projectHeaders, projectRows(dev.Projects)); err != nil {
				return err
			}
			fmt.Fprintln(a.out, titleStyle.Render("certificates"))
			return writeTable(a.out, certificateHeaders, certificateRows(dev.Certificates))
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner address")
	cmd.Flags().StringVar(&username, "username", "", "profile username")
	cmd.MarkFlagsMutuallyExclusive("owner", "username")
	return cmd
}

func (a *app) projectsCmd() *cobra.Command {
	var ids []string
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects by vote count",
		Long:  "Lists the given project ids, or every verified profile's projects when --ids is not set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				projects []domain.Project
				err      error
			)
			if cmd.Flags().Changed("ids") {
				projects, err = a.directory.Projects(cmd.Context(), ids)
			} else {
				projects, err = a.directory.AllProjects(cmd.Context())
			}
			if err != nil {
				return err
			}
			if a.opts.output == "json" {
				return writeJSON(a.out, projects)
			}
			return writeTable(a.out, projectHeaders, projectRows(projects))
		},
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "comma separated project ids")
	return cmd
}

func (a *app) certificatesCmd() *cobra.Command {
	var ids []string
	cmd := &cobra.Command{
		Use:   "certificates",
		Short: "List certificates with their expiry status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			certs, err := a.directory.Certificates(cmd.Context(), ids)
			if err != nil {
				return err
			}
			if a.opts.output == "json" {
				return writeJSON(a.out, certs)
			}
			return writeTable(a.out, certificateHeaders, certificateRows(certs))
		},
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "comma separated certificate ids")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func (a *app) votedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voted PROJECT ADDRESS",
		Short: "Check whether an address has voted for a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			voted, err := a.directory.HasVoted(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if a.opts.output == "json" {
				return writeJSON(a.out, map[string]bool{"hasVoted": voted})
			}
			fmt.Fprintln(a.out, strconv.FormatBool(voted))
			return nil
		},
	}
}
