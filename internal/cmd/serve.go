// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	serveCmdUsage = "serve"
	serveCmdShort = "start the data catalog API server"
	serveCmdLong  = `Start the data catalog API server.
	The server connects to the backends configured through the environment,
	mounts the REST API and keeps running until it receives an interrupt or
	termination signal.

	Optional backends (cache, object store, lineage graph, embedding
	provider) are skipped when their environment variables are unset, the
	operations depending on them are then disabled.`

	serveCmdExample = `# Start the server, provisioning missing indices first
	data-catalog serve --bootstrap`

	bootstrapFlagName  = "bootstrap"
	bootstrapFlagUsage = "provision missing indices, graph constraints and buckets before starting"
	defaultBootstrap   = false
)

// ServeCmd returns the Cobra command that runs the API server.
func ServeCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toOptions()
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// serveFlags holds the flags for the "serve" command.
type serveFlags struct {
	bootstrap bool
}

// addFlags adds the cli flags to the cobra command.
func (f *serveFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.bootstrap, bootstrapFlagName, defaultBootstrap, bootstrapFlagUsage)
}

// toOptions converts the serve flags to serveOptions.
func (f *serveFlags) toOptions() *serveOptions {
	return &serveOptions{
		bootstrap: f.bootstrap,
	}
}
