package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlas-travel/places-cli/internal/faults"
)

// resolveCmd is a test mode: resolve one keyword against the map surface
// without spending source quota or persisting anything.
var resolveCmd = &cobra.Command{
	Use:   "resolve <keyword>",
	Short: "Resolve a single keyword to its canonical place identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := initResolver()
		identity, err := r.Resolve(cmd.Context(), args[0])
		if errors.Is(err, faults.ErrNotFound) {
			fmt.Println("not found")
			return nil
		}
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(identity, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
