package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/version"
)

func (a *app) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Show contentful-typegen version information",
		Long:        `Display version, build time, commit hash, and platform information for the contentful-typegen binary.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			info := version.Get()

			if jsonOutput {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to format version info")
				}
				fmt.Fprintln(a.stdout, string(output))
				return nil
			}

			fmt.Fprintln(a.stdout, info.String())
			fmt.Fprintf(a.stdout, "Platform: %s\n", info.Platform)
			fmt.Fprintf(a.stdout, "Go: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	return cmd
}
