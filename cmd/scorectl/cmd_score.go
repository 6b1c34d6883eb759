package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/demoscore/internal/application/dto"
	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/internal/domain/service"
	"github.com/bibbank/demoscore/internal/infrastructure/config"
)

type scoreOptions struct {
	file   string
	format string
	secret string
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a JSON or YAML feature payload",
		Long: `Reads a feature payload and prints its demo score.

The payload is read from --file, or from stdin when --file is "-" or unset.
Files ending in .yaml or .yml are parsed as YAML. The secret comes from
--secret, then DEMO_SECRET, then the development placeholder.

Example:
  scorectl score -f payload.json
  echo '{"utilities_on_time_rate":0.7}' | scorectl score --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readPayload(cmd, opts.file)
			if err != nil {
				return err
			}
			input, err := model.ParseFeatureInput(body)
			if err != nil {
				return err
			}
			return scoreAndPrint(cmd, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "payload file, or - for stdin")
	addOutputFlags(cmd, opts)
	return cmd
}

func newDemoCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Score the built-in demo feature set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return scoreAndPrint(cmd, model.DemoFeatureSet(), opts)
		},
	}

	addOutputFlags(cmd, opts)
	return cmd
}

func addOutputFlags(cmd *cobra.Command, opts *scoreOptions) {
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format: json or text")
	cmd.Flags().StringVar(&opts.secret, "secret", "", "HMAC secret (defaults to DEMO_SECRET)")
}

// readPayload reads the payload and normalises YAML input to JSON.
func readPayload(cmd *cobra.Command, file string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return yamlToJSON(data)
	default:
		return data, nil
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML payload: %w", err)
	}
	if doc == nil {
		return []byte("{}"), nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting YAML payload: %w", err)
	}
	return out, nil
}

func resolveSecret(cmd *cobra.Command, flagValue string) []byte {
	if flagValue != "" {
		return []byte(flagValue)
	}
	if v := os.Getenv("DEMO_SECRET"); v != "" {
		return []byte(v)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "warning: DEMO_SECRET not set, using the development placeholder secret")
	return []byte(config.DevPlaceholderSecret)
}

func scoreAndPrint(cmd *cobra.Command, input model.FeatureInput, opts *scoreOptions) error {
	if opts.format != "json" && opts.format != "text" {
		return fmt.Errorf("unknown format %q (want json or text)", opts.format)
	}

	engine, err := service.NewScoreEngine(resolveSecret(cmd, opts.secret))
	if err != nil {
		return err
	}
	result, err := engine.Score(input)
	if err != nil {
		return fmt.Errorf("scoring payload: %w", err)
	}
	resp := dto.FromModel(result)

	out := cmd.OutOrStdout()
	if opts.format == "text" {
		return printText(out, resp)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func printText(w io.Writer, resp dto.ScoreResponse) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Score:   %d (%s)\n", resp.Score, resp.ScoreBand)
	fmt.Fprintf(&b, "Reasons: %s\n", strings.Join(resp.ReasonCodes, ", "))
	b.WriteString("Attributes:\n")
	for _, attr := range resp.AttributePercentages() {
		fmt.Fprintf(&b, "  %-22s %6s%%\n", attr.Name, attr.Percent.StringFixed(1))
	}
	fmt.Fprintf(&b, "\n%s\n", resp.Disclaimer)

	_, err := io.WriteString(w, b.String())
	return err
}
