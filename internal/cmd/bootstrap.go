// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"sync"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/wisefood/data-catalog/internal/logger"
)

const (
	bootstrapCmdUsage = "bootstrap"
	bootstrapCmdShort = "provision the catalog backends"
	bootstrapCmdLong  = `Provision the catalog backends.
	Creates the missing Elasticsearch indices from the embedded definitions,
	applies the urn uniqueness constraints to the lineage graph and makes
	sure the artifact bucket exists. Existing resources are left untouched,
	so the command can run on every deploy.`

	bootstrapCmdExample = `# Provision indices, constraints and buckets
	data-catalog bootstrap`
)

// BootstrapCmd returns the Cobra command that provisions the backends.
func BootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:     bootstrapCmdUsage,
		Short:   heredoc.Doc(bootstrapCmdShort),
		Long:    heredoc.Doc(bootstrapCmdLong),
		Example: heredoc.Doc(bootstrapCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := &bootstrapOptions{}
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}
}

// bootstrapOptions holds the state for a one shot provisioning run.
type bootstrapOptions struct {
	lock sync.Mutex
}

// execute provisions every configured backend.
func (o *bootstrapOptions) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	backends, err := connectBackends()
	if err != nil {
		return err
	}
	defer backends.close(ctx)

	if err := provision(ctx, backends); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("catalog backends provisioned")
	return nil
}
