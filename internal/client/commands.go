// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/ai-pills/internal/adapter"
	"github.com/MKhiriev/ai-pills/models"
)

func (a *App) registerCommand() *cobra.Command {
	var (
		req      models.RegisterRequest
		username string
		phone    string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api(false)
			if err != nil {
				return err
			}
			if username != "" {
				req.Username = &username
			}
			if phone != "" {
				req.Phone = &phone
			}

			user, err := api.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&username, "username", "", "optional username")
	cmd.Flags().StringVar(&phone, "phone", "", "optional phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var req models.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the access token",
		Long: `Log in with an email or a username and print the access token.

Example:
  export AIPILLS_TOKEN=$(aipills login --login alice@example.com --password ...)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api(false)
			if err != nil {
				return err
			}

			token, err := api.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
			return err
		},
	}

	cmd.Flags().StringVar(&req.Login, "login", "", "email or username")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (a *App) meCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api(true)
			if err != nil {
				return err
			}

			user, err := api.Me(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}

func (a *App) agentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage your agents",
	}
	cmd.AddCommand(a.agentsListCommand(), a.agentsCreateCommand())
	return cmd
}

func (a *App) agentsListCommand() *cobra.Command {
	var page models.Page

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api(true)
			if err != nil {
				return err
			}

			agents, err := api.ListAgents(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), agents)
		},
	}

	cmd.Flags().Uint64Var(&page.Skip, "skip", 0, "number of agents to skip")
	cmd.Flags().Uint64Var(&page.Limit, "limit", 0, "maximum number of agents, server default when 0")

	return cmd
}

func (a *App) agentsCreateCommand() *cobra.Command {
	var (
		in         models.AgentCreate
		visibility string
		githubLink string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an agent",
		Long: `Create an agent. New agents wait for review before they are published.

Example:
  aipills agents create --name summarizer --description "Summarizes text" \
    --visibility public --tags nlp,text --file-ref <file id> --copyright-confirmed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api(true)
			if err != nil {
				return err
			}
			in.Visibility = models.Visibility(visibility)
			if githubLink != "" {
				in.GithubLink = &githubLink
			}

			agent, err := api.CreateAgent(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), agent)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Name, "name", "", "agent name")
	flags.StringVar(&in.Description, "description", "", "agent description")
	flags.StringVar(&visibility, "visibility", string(models.VisibilityPrivate), "public or private")
	flags.StringSliceVar(&in.Tags, "tags", nil, "comma separated tags")
	flags.StringVar(&in.AgentType, "agent-type", "", "agent type")
	flags.StringVar(&in.Category, "category", "", "agent category")
	flags.StringVar(&githubLink, "github-link", "", "source repository URL")
	flags.StringSliceVar(&in.FileRefs, "file-ref", nil, "id of an uploaded file, repeatable")
	flags.BoolVar(&in.CopyrightConfirmed, "copyright-confirmed", false, "confirm you hold the rights to the agent")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (a *App) filesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Upload and download files",
	}
	cmd.AddCommand(a.filesUploadCommand(), a.filesDownloadCommand())
	return cmd
}

func (a *App) filesUploadCommand() *cobra.Command {
	var agentID, fileType string

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(true)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			file, err := api.UploadFile(cmd.Context(), filepath.Base(args[0]), f, agentID, fileType)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), file)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent-id", "", "attach the file to this agent")
	cmd.Flags().StringVar(&fileType, "file-type", "", "file category, e.g. agent or general")

	return cmd
}

func (a *App) filesDownloadCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a file",
		Long: `Download a file. Without --out the file is saved in the current
directory under the name announced by the server. Use --out - for stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(true)
			if err != nil {
				return err
			}

			if out == "-" {
				_, err = api.DownloadFile(cmd.Context(), args[0], cmd.OutOrStdout())
				return err
			}
			return a.downloadToFile(cmd, api, args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "destination path, - for stdout")

	return cmd
}

// downloadToFile writes into a temp file first so a failed download leaves
// nothing behind.
func (a *App) downloadToFile(cmd *cobra.Command, api adapter.APIClient, id, out string) error {
	dir := "."
	if out != "" {
		dir = filepath.Dir(out)
	}

	tmp, err := os.CreateTemp(dir, ".aipills-download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	name, err := api.DownloadFile(cmd.Context(), id, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if out == "" {
		out = filepath.Join(dir, filepath.Base(name))
	}
	if err = os.Rename(tmp.Name(), out); err != nil {
		return err
	}

	a.logger.Debug().Str("file_id", id).Str("path", out).Msg("file downloaded")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
