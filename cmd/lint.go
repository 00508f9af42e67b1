package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/lesson"
	"github.com/abhisek/hayer/internal/logging"
)

// errLintFailed makes lint exit non-zero once every file has been reported.
var errLintFailed = errors.New("lint found errors")

var lintCmd = &cobra.Command{
	Use:   "lint <lesson-file|lesson-dir>...",
	Short: "Check lesson files for exercises that cannot be graded",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().Bool("json", false, "Print findings as JSON keyed by file")
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	asJSON, _ := cmd.Flags().GetBool("json")
	resolver := newEngine(cfg).Resolver()
	out := cmd.OutOrStdout()

	paths, err := lessonPaths(args)
	if err != nil {
		return err
	}

	failed := false
	report := make(map[string][]lesson.Finding, len(paths))
	for _, path := range paths {
		l, err := lesson.LoadFile(path)
		if err != nil {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			continue
		}

		findings := lesson.Lint(l, resolver)
		if lesson.HasErrors(findings) {
			failed = true
		}
		for _, f := range findings {
			if f.Severity == lesson.SeverityError {
				logger.Warn("exercise cannot be graded",
					zap.String("file", path),
					zap.String("exercise_id", f.ExerciseID),
					zap.String("kind", string(f.Kind)),
					zap.String("reason", f.Message))
			}
		}

		if asJSON {
			if findings == nil {
				findings = []lesson.Finding{}
			}
			report[path] = findings
			continue
		}
		for _, f := range findings {
			fmt.Fprintf(out, "%s: %s\n", path, f)
		}
		if len(findings) == 0 {
			fmt.Fprintf(out, "%s: ok (%d exercises)\n", path, len(l.Exercises))
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if failed {
		return errLintFailed
	}
	return nil
}

// lessonPaths expands directories in args to the lesson files directly
// inside them.
func lessonPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			out = append(out, arg)
			continue
		}
		items, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read lesson dir: %w", err)
		}
		for _, item := range items {
			if !item.IsDir() && lesson.IsLessonFile(item.Name()) {
				out = append(out, filepath.Join(arg, item.Name()))
			}
		}
	}
	return out, nil
}
