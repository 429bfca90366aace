package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ssg "github.com/goliatone/go-ssg"
)

var (
	buildDrafts bool
	buildClean  bool
	buildDryRun bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into the output directory",
	Long: `Build loads every Markdown file under the content directory, renders
posts and pages through their layout chains, writes the paginated blog
index, and copies static assets into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		module, _, err := newModule()
		if err != nil {
			return err
		}

		result, err := module.Build(cmd.Context(), ssg.BuildOptions{
			Drafts: buildDrafts,
			Clean:  buildClean,
			DryRun: buildDryRun,
		})
		if err != nil {
			return err
		}

		fmt.Printf("built %d pages (%d index pages, %d assets) in %s\n",
			result.PagesBuilt, result.IndexPages, result.AssetsBuilt, result.Duration)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "include posts marked draft")
	buildCmd.Flags().BoolVar(&buildClean, "clean", true, "remove the output directory before building")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "render everything but write nothing")
	rootCmd.AddCommand(buildCmd)
}
