package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatcher/internal/logger"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the skills taxonomy",
}

var taxonomyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the taxonomy file and report its shape",
	Run: func(cmd *cobra.Command, _ []string) {
		runTaxonomyCheck()
	},
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show [skill-id]",
	Short: "Show a skill with its ancestors, descendants and equivalents",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runTaxonomyShow(args[0])
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(taxonomyCheckCmd)
	taxonomyCmd.AddCommand(taxonomyShowCmd)
}

func runTaxonomyCheck() {
	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	snap, err := loadSnapshot(config)
	if err != nil {
		logg.Fatal("taxonomy is invalid", zap.Error(err))
	}

	classes := make(map[string]struct{}, snap.Len())
	for _, id := range snap.IDs() {
		classes[snap.Canonical(id)] = struct{}{}
	}

	logg.Info("taxonomy is valid",
		zap.String("file", config.Taxonomy),
		zap.Int("skills", snap.Len()),
		zap.Int("equivalence_classes", len(classes)),
	)
}

func runTaxonomyShow(id string) {
	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	snap, err := loadSnapshot(config)
	if err != nil {
		logg.Fatal("building taxonomy", zap.Error(err))
	}

	skill, ok := snap.Skill(id)
	if !ok {
		logg.Fatal("skill not found in the taxonomy", zap.String("skill_id", id))
	}

	fmt.Printf("%s: %s\n", skill.ID, skill.Name)
	if skill.Category != "" {
		fmt.Printf("category:    %s\n", skill.Category)
	}
	printIDList("ancestors", snap.Ancestors(id))
	printIDList("descendants", snap.Descendants(id))
	printIDList("equivalents", snap.EquivalentTo(id))
}

func printIDList(label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, id := range ids {
		fmt.Printf("  - %s\n", id)
	}
}
