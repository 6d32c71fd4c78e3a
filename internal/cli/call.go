package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swagcall"
)

// CallConfig captures the inputs of the call command after merging defaults
// and CLI overrides.
type CallConfig struct {
	Input     string
	Operation string
	Args      map[string]any
	BaseURL   string
	Timeout   time.Duration
	Output    string
	Verbose   bool
}

var callRunner = runCall

func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call",
		Short: "Invoke one operation from a Swagger/OpenAPI document",
		Long: "Invoke one generated operation with validated arguments. Argument values are decoded as JSON " +
			"when possible (numbers, booleans, objects) and fall back to plain strings.",
		Example: strings.TrimSpace(`  swagcall call --input petstore.yaml --operation getPetById --arg id=42
  swagcall call --input petstore.yaml --operation addPet --arg 'pet={"name":"rex"}' --base-url http://localhost:8080`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveCallConfig(cmd)
			if err != nil {
				return err
			}
			return callRunner(cmd.Context(), cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("operation", "", "Operation name to invoke")
	flags.StringArray("arg", nil, "Operation argument as name=value; repeatable")
	flags.String("base-url", "", "Override the document-derived base URL")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout for the call")
	flags.String("output", "text", "Output format (text|json)")

	return cmd
}

func resolveCallConfig(cmd *cobra.Command) (*CallConfig, error) {
	cfg := &CallConfig{}
	flags := cmd.Flags()
	var err error
	if cfg.Input, err = flags.GetString("input"); err != nil {
		return nil, err
	}
	if cfg.Operation, err = flags.GetString("operation"); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Operation = strings.TrimSpace(cfg.Operation)
	if cfg.Input == "" {
		return nil, newUsageError("call: --input is required")
	}
	if cfg.Operation == "" {
		return nil, newUsageError("call: --operation is required")
	}
	switch cfg.Output {
	case "text", "json":
	default:
		return nil, newUsageError(fmt.Sprintf("call: unsupported output format %q (text|json)", cfg.Output))
	}

	rawArgs, err := flags.GetStringArray("arg")
	if err != nil {
		return nil, err
	}
	cfg.Args, err = parseArgPairs(rawArgs)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseArgPairs turns repeated name=value flags into an argument bag. Values
// that parse as JSON keep their JSON type; everything else stays a string.
func parseArgPairs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, newUsageError(fmt.Sprintf("call: malformed --arg %q (want name=value)", pair))
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			args[name] = decoded
			continue
		}
		args[name] = value
	}
	return args, nil
}

func runCall(ctx context.Context, cmd *cobra.Command, cfg *CallConfig) error {
	opts := []swagcall.ClientOption{
		swagcall.WithLogger(buildLogger(cfg.Verbose)),
		swagcall.WithHTTPTimeout(cfg.Timeout),
	}
	client, err := swagcall.New(ctx, cfg.Input, opts...)
	if err != nil {
		return err
	}
	if cfg.BaseURL != "" {
		if err := client.BindLocal(cfg.BaseURL); err != nil {
			return err
		}
	}

	tx, err := client.Call(ctx, cfg.Operation, cfg.Args)
	if err != nil {
		return err
	}
	if tx.Err != nil {
		return fmt.Errorf("%s %s: %w", tx.Method, tx.URL, tx.Err)
	}

	out := cmd.OutOrStdout()
	if cfg.Output == "json" {
		return json.NewEncoder(out).Encode(map[string]any{
			"id":     tx.ID,
			"method": tx.Method,
			"url":    tx.URL,
			"status": tx.StatusCode,
			"body":   string(tx.Body),
		})
	}
	fmt.Fprintf(out, "%s %s -> %d\n", tx.Method, tx.URL, tx.StatusCode)
	if len(tx.Body) > 0 {
		fmt.Fprintln(out, string(tx.Body))
	}
	return nil
}
