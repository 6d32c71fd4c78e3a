package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mark3labs/swagcall"
)

// DescribeConfig captures the inputs of the describe command after merging
// defaults and CLI overrides.
type DescribeConfig struct {
	Input     string
	Operation string
	Verbose   bool
}

var describeRunner = runDescribe

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "List the operations a Swagger/OpenAPI document generates",
		Long:  "List every callable operation generated from a Swagger/OpenAPI document, with its method, path template, and parameters.",
		Example: strings.TrimSpace(`  swagcall describe --input petstore.yaml
  swagcall describe --input https://example.com/swagger.json --operation getPetById`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveDescribeConfig(cmd)
			if err != nil {
				return err
			}
			return describeRunner(cmd.Context(), cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("operation", "", "Describe only this operation")

	return cmd
}

func resolveDescribeConfig(cmd *cobra.Command) (*DescribeConfig, error) {
	cfg := &DescribeConfig{}
	var err error
	if cfg.Input, err = cmd.Flags().GetString("input"); err != nil {
		return nil, err
	}
	if cfg.Operation, err = cmd.Flags().GetString("operation"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return nil, err
	}
	cfg.Input = strings.TrimSpace(cfg.Input)
	if cfg.Input == "" {
		return nil, newUsageError("describe: --input is required")
	}
	return cfg, nil
}

func runDescribe(ctx context.Context, cmd *cobra.Command, cfg *DescribeConfig) error {
	client, err := swagcall.New(ctx, cfg.Input, swagcall.WithLogger(buildLogger(cfg.Verbose)))
	if err != nil {
		return err
	}

	names := client.Operations()
	if cfg.Operation != "" {
		if _, ok := client.Operation(cfg.Operation); !ok {
			return fmt.Errorf("unknown operation %q (have: %s)", cfg.Operation, strings.Join(names, ", "))
		}
		names = []string{cfg.Operation}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "base URL: %s\n", client.BaseURL())
	for _, name := range names {
		op, _ := client.Operation(name)
		fmt.Fprintf(out, "%s  %s %s\n", name, op.Method, op.Path)
		var params []string
		for _, p := range op.Params {
			req := ""
			if p.Required {
				req = ", required"
			}
			typ := p.Type
			if typ == "" && p.Schema != nil {
				typ = "object"
			}
			params = append(params, fmt.Sprintf("  - %s (%s, %s%s)", p.Name, p.In, typ, req))
		}
		sort.Strings(params)
		for _, line := range params {
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

func buildLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
