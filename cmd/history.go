package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatcher/internal/history"
	"github.com/spigell/skillmatcher/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously computed matches",
	Run: func(cmd *cobra.Command, _ []string) {
		runHistory(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("candidate", "c", "", "show only matches for this candidate id")
	historyCmd.Flags().StringP("role", "r", "", "show only matches for this role id")
	historyCmd.Flags().IntP("limit", "n", 0, "maximum entries to show (default 20)")
}

func runHistory(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	path := history.DefaultPath()
	if config != nil && config.History != nil && config.History.Path != "" {
		path = config.History.Path
	}

	store, err := history.Open(path)
	if err != nil {
		logg.Fatal("opening history store", zap.Error(err))
	}
	defer store.Close()

	candidateID, _ := cmd.Flags().GetString("candidate")
	roleID, _ := cmd.Flags().GetString("role")
	limit, _ := cmd.Flags().GetInt("limit")

	records, err := store.List(ctx, candidateID, roleID, limit)
	if err != nil {
		logg.Fatal("listing history", zap.Error(err))
	}

	if len(records) == 0 {
		fmt.Println("no recorded matches")
		return
	}

	for _, rec := range records {
		viable := ""
		if !rec.Viable {
			viable = "  [disqualified]"
		}
		fmt.Printf("%s  %-16s vs %-16s score %.2f%s\n", rec.CreatedAt, rec.CandidateID, rec.RoleID, rec.Score, viable)
	}
}
