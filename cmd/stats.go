package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show attempt statistics from the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		lessonID, _ := cmd.Flags().GetString("lesson")
		stats, err := e.store.EventRepo().Stats(cmd.Context(), lessonID)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"stats": stats, "accuracy": stats.Accuracy()})
		}

		if stats.Attempts == 0 {
			fmt.Fprintln(out, "No attempts recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "Attempts: %d   Correct: %d   Skipped: %d   Accuracy: %.0f%%   XP: %d\n",
			stats.Attempts, stats.Correct, stats.Skipped, stats.Accuracy()*100, stats.XP)
		if !stats.LastAttempt.IsZero() {
			fmt.Fprintf(out, "Last attempt: %s\n", stats.LastAttempt.Local().Format("2006-01-02 15:04"))
		}

		kinds := make([]string, 0, len(stats.ByKind))
		for k := range stats.ByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		fmt.Fprintf(out, "\n%-20s  %8s  %8s  %8s\n", "Kind", "Attempts", "Correct", "Skipped")
		fmt.Fprintln(out, strings.Repeat("─", 50))
		for _, k := range kinds {
			ks := stats.ByKind[k]
			fmt.Fprintf(out, "%-20s  %8d  %8d  %8d\n", k, ks.Attempts, ks.Correct, ks.Skipped)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("lesson", "", "Only count attempts from this lesson")
	statsCmd.Flags().Bool("json", false, "Print as JSON")
}
