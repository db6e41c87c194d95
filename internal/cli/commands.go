package cli

import (
	"github.com/spf13/cobra"

	"validoc/internal/client"
)

func (a *app) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to the document service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			doc, err := a.newService(a.apiURL).Upload(ctx, path)
			if err != nil {
				a.logFailure(ctx, "upload", path, err)
				a.failure(cmd.ErrOrStderr(), "Error uploading file", err)
				return nil
			}

			a.success(cmd.OutOrStdout(), "Successfully uploaded document: filename=%s hash=%s", doc.Filename, doc.Hash)
			return nil
		},
	}
}

func (a *app) hashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>",
		Short: "Generate the hash of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			sum, err := a.newService(a.apiURL).Hash(path)
			if err != nil {
				a.logFailure(cmd.Context(), "hash", path, err)
				a.failure(cmd.ErrOrStderr(), "Error hashing file", err)
				return nil
			}

			a.success(cmd.OutOrStdout(), "File hash: %s", sum)
			return nil
		},
	}
}

func (a *app) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a file against the document service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			ok, err := a.newService(a.apiURL).Verify(ctx, path)
			if err == nil && !ok {
				err = client.VerificationFailed()
			}
			if err != nil {
				a.logFailure(ctx, "verify", path, err)
				a.failure(cmd.ErrOrStderr(), "Error verifying file", err)
				return nil
			}

			a.success(cmd.OutOrStdout(), "File verification successful.")
			return nil
		},
	}
}
