package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/config"
)

func newBucketPolicyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bucket-policy",
		Short: "Allow public reads of recipe images in the configured bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			s3Config, err := config.NewS3Config(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			if err := s3Config.SetupBucketPolicy(cmd.Context()); err != nil {
				return fmt.Errorf("failed to set bucket policy on %s: %w", s3Config.BucketName, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "public read policy applied to %s\n", s3Config.BucketName)
			return nil
		},
	}
}
