package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"omnibox_backend/internal/classifier"
	"omnibox_backend/internal/dispatch"
	"omnibox_backend/internal/omnibox/transport"

	"github.com/spf13/cobra"
)

// Shown verbatim to the user.
const emptyInputNotice = "Input cannot be empty"

var errEmptyInput = errors.New(emptyInputNotice)

type cliDeps struct {
	classifier     *classifier.Classifier
	defaultEngine  classifier.SearchEngine
	maxInputLength int
	dispatcher     dispatch.Dispatcher
	isTerminal     func() bool
}

type rootFlags struct {
	video bool
	print bool
	json  bool
}

func newRootCommand(deps *cliDeps) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "omnibox [flags] <text...>",
		Short: "Dial, mail or browse to whatever you type",
		Long: "Classifies the input as a phone number, an email address or a web target " +
			"and opens it with the matching desktop application. Text that is not a URL " +
			"is searched with the general or video search engine.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, deps, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.video, "video", false, "Search with the video engine")
	cmd.Flags().BoolVarP(&flags.print, "print", "p", false, "Print the classification instead of opening it")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the classification as JSON (implies --print)")

	return cmd
}

func runRoot(cmd *cobra.Command, deps *cliDeps, flags *rootFlags, args []string) error {
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		return errEmptyInput
	}
	if deps.maxInputLength > 0 && utf8.RuneCountInString(input) > deps.maxInputLength {
		return fmt.Errorf("Input exceeds %d characters", deps.maxInputLength)
	}

	engine := deps.defaultEngine
	if flags.video {
		engine = classifier.EngineVideo
	}

	result := deps.classifier.Classify(input, engine)

	if flags.print || flags.json {
		return printResult(cmd, result, engine, flags.json || !deps.isTerminal())
	}

	if err := dispatch.Route(cmd.Context(), deps.dispatcher, result); err != nil {
		return errors.New(dispatch.Notice(err))
	}
	return nil
}

func printResult(cmd *cobra.Command, result classifier.Result, engine classifier.SearchEngine, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		return enc.Encode(transport.NewClassifyResponse(result, engine))
	}

	label := string(result.Kind())
	if web, ok := result.(classifier.WebTarget); ok && !web.WasDirectURL {
		label = "search"
	}
	_, err := fmt.Fprintf(out, "%-6s %s\n", label, result.Target())
	return err
}
