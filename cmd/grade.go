package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/grading"
	"github.com/abhisek/hayer/internal/lesson"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <exercise.json>",
	Short: "Grade one answer against an exercise (no database)",
	Long: `Grade a single answer the way the player does and print the result as JSON.

The exercise is read from a JSON file, or from stdin when the path is "-".
Exactly one of --select, --text, --sequence, --pair or --skip gives the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

func init() {
	addGradeFlags(gradeCmd)
}

func addGradeFlags(c *cobra.Command) {
	c.Flags().String("select", "", "Selected choice indices, e.g. 0,2")
	c.Flags().String("text", "", "Typed answer")
	c.Flags().String("sequence", "", "Picked tile or token indices in order, e.g. 2,0,1")
	c.Flags().String("pair", "", "One match-the-pairs pick as left=right, e.g. 0=1")
	c.Flags().Bool("skip", false, "Skip the exercise")
	c.MarkFlagsMutuallyExclusive("select", "text", "sequence", "pair", "skip")
	c.MarkFlagsOneRequired("select", "text", "sequence", "pair", "skip")
}

type gradeOutput struct {
	Result   exercise.AttemptResult `json:"result"`
	CanCheck bool                   `json:"can_check"`
	Solution string                 `json:"solution,omitempty"`
}

func runGrade(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ex, err := readExercise(cmd, args[0])
	if err != nil {
		return err
	}
	in, err := inputFromFlags(cmd)
	if err != nil {
		return err
	}

	engine := newEngine(cfg)
	out := gradeOutput{
		Result:   engine.Grade(ex, in),
		CanCheck: grading.CanCheck(ex, in),
	}
	if !out.Result.IsCorrect {
		out.Solution = engine.Solution(ex).Text
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// readExercise decodes and schema-checks one exercise document.
func readExercise(cmd *cobra.Command, path string) (*exercise.Exercise, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read exercise: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", lesson.ErrInvalid, err)
	}
	if err := lesson.ValidateExercise(doc); err != nil {
		return nil, err
	}

	var ex exercise.Exercise
	if err := json.Unmarshal(raw, &ex); err != nil {
		return nil, fmt.Errorf("%w: %w", lesson.ErrInvalid, err)
	}
	return &ex, nil
}

func inputFromFlags(cmd *cobra.Command) (exercise.Input, error) {
	var in exercise.Input
	flags := cmd.Flags()

	if flags.Changed("skip") {
		in.Skip, _ = flags.GetBool("skip")
	}
	if flags.Changed("text") {
		in.Text, _ = flags.GetString("text")
	}
	if flags.Changed("select") {
		s, _ := flags.GetString("select")
		sel, err := parseIndices(s)
		if err != nil {
			return in, fmt.Errorf("--select: %w", err)
		}
		in.Selected = sel
	}
	if flags.Changed("sequence") {
		s, _ := flags.GetString("sequence")
		seq, err := parseIndices(s)
		if err != nil {
			return in, fmt.Errorf("--sequence: %w", err)
		}
		in.Sequence = seq
	}
	if flags.Changed("pair") {
		s, _ := flags.GetString("pair")
		left, right, ok := strings.Cut(s, "=")
		if !ok {
			return in, fmt.Errorf("--pair: want left=right, got %q", s)
		}
		l, err := strconv.Atoi(strings.TrimSpace(left))
		if err != nil {
			return in, fmt.Errorf("--pair: %w", err)
		}
		r, err := strconv.Atoi(strings.TrimSpace(right))
		if err != nil {
			return in, fmt.Errorf("--pair: %w", err)
		}
		in.Pair = &exercise.PairPick{Left: l, Right: r}
	}
	return in, nil
}

// parseIndices parses a comma separated list of integers. An empty string
// is an empty list.
func parseIndices(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
