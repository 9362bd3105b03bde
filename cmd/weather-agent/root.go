package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/TolaniSilas/agents"
	"github.com/TolaniSilas/agents/mcp"
	"github.com/TolaniSilas/agents/weather"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
)

func newRootCommand(stdout, stderr io.Writer, getenv func(string) string) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "weather-agent <query>",
		Short: "Answer a weather question in one sentence",
		Example: `  weather-agent "What is the weather like in Lagos?"
  weather-agent --model offline "Weather in Paris, France as JSON"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: flags.logLevel()}))
			return run(cmd.Context(), logger, flags, getenv, strings.Join(args, " "), stdout, stderr)
		},
	}

	cmd.Flags().StringVar(
		&flags.Model,
		"model",
		"",
		fmt.Sprintf("Model as provider:model (groq, openai, offline). Defaults to $%s or %s", envModel, defaultModel),
	)
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "Dump the full agent response to stderr")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Abort the query after this long (0 means no limit)")
	cmd.Flags().StringVar(
		&flags.MCPURL,
		"mcp-url",
		"",
		fmt.Sprintf("Offer the tools of a streamable HTTP MCP server too. Defaults to $%s", envMCPURL),
	)
	cmd.Flags().StringVar(&flags.MCPCommand, "mcp-command", "", "Offer the tools of an MCP server launched with this command line")

	return cmd
}

func run(
	ctx context.Context,
	logger *slog.Logger,
	flags *rootFlags,
	getenv func(string) string,
	query string,
	stdout, stderr io.Writer,
) error {
	if getenv(envOTLPEndpoint) != "" {
		shutdown, err := initTracing(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to flush traces", "error", err)
			}
		}()
		logger.Debug("tracing enabled", "endpoint", getenv(envOTLPEndpoint))
	}

	if flags.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.Timeout)
		defer cancel()
	}

	client := &http.Client{}
	deps := depsFromEnv(getenv, client)
	if deps.GeoAPIKey == "" {
		logger.Info("geocoding key not set, using placeholder coordinates", "env", envGeoAPIKey)
	}
	if deps.WeatherAPIKey == "" {
		logger.Info("weather key not set, using placeholder weather", "env", envWeatherAPIKey)
	}

	spec := flags.modelSpec(getenv)
	model, err := newModel(spec, getenv, client)
	if errors.Is(err, errMissingAPIKey) {
		logger.Warn("model API key missing, falling back to the offline policy", "model", spec, "error", err)
		model, err = weather.NewOfflineModel(), nil
	}
	if err != nil {
		return err
	}
	logger.Debug("using model", "provider", model.Provider(), "model", model.ModelID())

	var opts []agents.AgentParamsOption[*weather.Deps]
	if params, ok := flags.mcpParams(getenv, client); ok {
		logger.Debug("attaching MCP tools", "url", params.URL, "command", params.Command)
		opts = append(opts, agents.WithToolkits[*weather.Deps](
			weather.Toolkit{},
			mcp.NewToolkit(mcp.Static[*weather.Deps](params)),
		))
	}

	response, err := weather.Run(ctx, weather.NewAgent(model, opts...), deps, query)
	if err != nil {
		var agentErr *agents.AgentError
		if errors.As(err, &agentErr) {
			logger.Error("query failed", "kind", agentErr.Kind, "error", err)
		}
		return err
	}

	if usage := response.Usage(); usage != nil {
		logger.Debug("token usage", "input", usage.InputTokens, "output", usage.OutputTokens)
	}
	if flags.Debug {
		fmt.Fprintln(stderr, litter.Sdump(response))
	}

	_, err = fmt.Fprintln(stdout, response.Text())
	return err
}
