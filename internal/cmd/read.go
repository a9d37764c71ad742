package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/filestore"
	"github.com/simons-plugins/logs-over-reflector/internal/output"
	"github.com/simons-plugins/logs-over-reflector/internal/parser"
	"github.com/simons-plugins/logs-over-reflector/internal/query"
)

var (
	readSource string
	readSearch string
	readOutput string
)

var readDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var readCmd = &cobra.Command{
	Use:   "read <date>",
	Short: "Print one historical day file to the terminal",
	Long: `Read the per-day log file for a date directly from the logs directory,
apply the same source and search filters as the API, and print the
entries. Supports colorized output and JSON mode.

Examples:
  logreflector read 2024-06-15
  logreflector read 2024-06-15 --source Z-Wave --search timeout -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().StringVar(&readSource, "source", "", "filter by exact source name")
	readCmd.Flags().StringVar(&readSearch, "search", "", "case-insensitive text search in messages")
	readCmd.Flags().StringVarP(&readOutput, "output", "o", "text", "output format: text, json")
}

func runRead(cmd *cobra.Command, args []string) error {
	date := args[0]
	if !readDateRE.MatchString(date) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid calendar date: %s", date)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	store := filestore.New(viper.GetString("logsDir"), logger)

	text, _, err := store.ReadDay(date)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("no log file for %s\n", date)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read day file: %w", err)
	}

	res := parser.ParseText(text)
	if res.UnparsedLeading > 0 && len(res.Entries) == 0 {
		logger.Warn("day file had lines but none matched the expected format",
			zap.String("date", date),
			zap.Int("lines", res.UnparsedLeading))
	}

	entries := query.Filter(res.Entries, strings.TrimSpace(readSource),
		strings.ToLower(strings.TrimSpace(readSearch)))

	var renderer output.Renderer
	switch strings.ToLower(readOutput) {
	case "json":
		renderer = output.NewJSONRenderer()
	default:
		renderer = output.NewTextRenderer()
	}

	for _, e := range entries {
		if err := renderer.Render(e); err != nil {
			return err
		}
	}
	return nil
}
