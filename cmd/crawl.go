package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"vsat-setup/internal/config"
	"vsat-setup/internal/logger"
	"vsat-setup/internal/vsat"
)

var (
	crawlProject string
	crawlModel   string
	crawlOut     string
)

// crawlCmd authenticates against the Virtual Satellite server, fetches a
// project's entity model, and writes the satellite structure JSON the
// workbench imports. Without --project it just lists the projects; when the
// project has several root models and none was picked with --model, it
// lists those instead of generating anything.
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Generate satellite structure JSON from a Virtual Satellite project",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load(configPath)
		client := vsat.NewClient(cfg.Server)

		logger.Info("[INFO] Using API: %s\n", cfg.Server.BaseURL)
		if err := client.Authorize(); err != nil {
			fail(err)
		}

		if crawlProject == "" {
			projects, err := client.Projects()
			if err != nil {
				fail(err)
			}
			if len(projects) == 0 {
				logger.Warn("[WARN] No projects found\n")
				return
			}
			logger.Info("[INFO] Available projects (pass one with --project):\n")
			for _, p := range projects {
				logger.Info("  %s  %s\n", p.ID, p.Name)
			}
			return
		}

		projectID := vsat.NormalizeID(crawlProject)
		logger.Info("[INFO] Generating satellite data for project %s\n", projectID)

		logger.Info("[INFO] Fetching entity types...\n")
		types, err := client.EntityTypes(projectID)
		if err != nil {
			fail(err)
		}
		logger.Info("[INFO] Fetching entities...\n")
		entities, err := client.Entities(projectID)
		if err != nil {
			fail(err)
		}
		logger.Info("[INFO] Found %d entities\n", len(entities))
		logger.Info("[INFO] Fetching categories...\n")
		categories, err := client.Categories(projectID)
		if err != nil {
			fail(err)
		}

		builder := vsat.NewBuilder(types, entities, categories)
		structure, err := builder.Structure(vsat.NormalizeID(crawlModel))
		if errors.Is(err, vsat.ErrModelChoice) {
			logger.Info("[INFO] Multiple root models available (pass one with --model):\n")
			for _, m := range builder.Models() {
				logger.Info("  %s  %s (%s)\n", m.ID, m.Name, m.Type)
			}
			return
		}
		if err != nil {
			fail(err)
		}

		out, err := json.MarshalIndent(structure, "", "  ")
		if err != nil {
			fail(err)
		}
		if err := os.WriteFile(crawlOut, out, 0644); err != nil {
			fail(err)
		}
		logger.Info("[INFO] Satellite JSON saved to: %s\n", crawlOut)
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlProject, "project", "", "Project ID to generate from (omit to list projects)")
	crawlCmd.Flags().StringVar(&crawlModel, "model", "", "Root model ID (omit to auto-select or list)")
	crawlCmd.Flags().StringVarP(&crawlOut, "out", "o", "satellite_structure.json", "Output JSON path")
	rootCmd.AddCommand(crawlCmd)
}
