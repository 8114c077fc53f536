package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"course-planner/internal/domain/planning"
	"course-planner/internal/service"

	"github.com/spf13/cobra"
)

var (
	curriculumFile string
	historyFile    string
	offerFile      string
	offerTerm      string
	creditCap      float64
	targetLevel    int
	priorityCodes  []string
	optionCount    int
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Compute a projection from local files",
	Long: `Compute a projection offline and print it as JSON.

The curriculum and history files may be JSON (the upstream payload shape) or
CSV (the backup upload format). With --options the alternative projections are
printed instead; with --offer and --term sections are assigned from an offer CSV or JSON file.`,
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringVar(&curriculumFile, "curriculum", "", "Curriculum file (.json or .csv)")
	projectCmd.Flags().StringVar(&historyFile, "history", "", "History file (.json or .csv)")
	projectCmd.Flags().StringVar(&offerFile, "offer", "", "Offer CSV or JSON used to assign sections")
	projectCmd.Flags().StringVar(&offerTerm, "term", "", "Term whose sections are assigned (requires --offer)")
	projectCmd.Flags().Float64Var(&creditCap, "credit-cap", planning.DefaultCreditCap, "Credit cap")
	projectCmd.Flags().IntVar(&targetLevel, "target-level", 0, "Courses below this level are prioritised")
	projectCmd.Flags().StringSliceVar(&priorityCodes, "priority", nil, "Course codes to prioritise")
	projectCmd.Flags().IntVar(&optionCount, "options", 0, "Print up to this many alternative projections")
	projectCmd.MarkFlagRequired("curriculum")
}

func runProject(cmd *cobra.Command, args []string) error {
	if (offerFile == "") != (offerTerm == "") {
		return fmt.Errorf("--offer and --term must be used together")
	}

	curriculumRaw, err := loadPayload(curriculumFile, func(raw string) (any, error) {
		return service.ParseCurriculumCSV(raw)
	})
	if err != nil {
		return err
	}

	var historyRaw any = []any{}
	if historyFile != "" {
		historyRaw, err = loadPayload(historyFile, func(raw string) (any, error) {
			return service.ParseHistoryCSV(raw)
		})
		if err != nil {
			return err
		}
	}

	curriculum := planning.ParseCurriculum(curriculumRaw)
	history := planning.ParseHistory(historyRaw)
	constraints := planning.SelectionConstraints{
		CreditCap:     creditCap,
		TargetLevel:   targetLevel,
		PriorityCodes: priorityCodes,
	}

	var output any
	if optionCount > 0 {
		output = planning.BuildOptions(curriculum, history, constraints, optionCount)
	} else {
		result := planning.Build(curriculum, history, constraints)
		if offerFile != "" {
			offerRaw, err := loadPayload(offerFile, func(raw string) (any, error) {
				return service.ParseOfferCSV(raw)
			})
			if err != nil {
				return err
			}
			result = planning.AssignSections(result, offerTerm, planning.ParseOfferedSections(offerRaw))
		}
		output = result
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// loadPayload reads a JSON payload, or converts a CSV upload into the same decoded shape
func loadPayload(path string, parseCSV func(string) (any, error)) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data := raw
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		items, err := parseCSV(string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if data, err = json.Marshal(items); err != nil {
			return nil, err
		}
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return payload, nil
}
