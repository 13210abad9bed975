package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/structdyn/internal/server"
)

func serve(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	opts, err := server.OptionsFromEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		opts.Addr = addr
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = workers
	}
	return server.New(opts).Run(cmd.Context())
}
