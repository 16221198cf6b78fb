// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"nickandperla.net/formula/internal/config"
	"nickandperla.net/formula/internal/eval"
	"nickandperla.net/formula/internal/expr"
	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/suggest"
	"nickandperla.net/formula/pkg/formula"
)

// buildProvider combines the configured sources. It returns nil when no
// source is configured.
func buildProvider(c *config.Config) provider.Provider {
	var sources []provider.Provider
	if c.Suggestions.File != "" {
		sources = append(sources, provider.NewFile(c.Suggestions.File))
	}
	if c.Suggestions.URL != "" {
		sources = append(sources, provider.NewHTTP(
			provider.WithHTTPURL(c.Suggestions.URL),
			provider.WithHTTPTimeout(c.GetTimeout()),
		))
	}
	switch len(sources) {
	case 0:
		return nil
	case 1:
		return sources[0]
	}
	return provider.NewMulti(sources...)
}

// sessionOptions maps the configuration onto session options.
func sessionOptions(c *config.Config, log *zap.Logger) []formula.Option {
	opts := []formula.Option{
		formula.WithLogger(log),
		formula.WithUnresolvedValue(c.Evaluation.UnresolvedTagValue),
		formula.WithFilter(c.FilterMode(), c.Filter.Limit),
	}
	if len(c.Tags.Options) > 0 {
		opts = append(opts, formula.WithTagOptions(c.Tags.Options...))
	}
	if p := buildProvider(c); p != nil {
		opts = append(opts, formula.WithProvider(p))
	}
	if c.Suggestions.Cache != "" {
		opts = append(opts, formula.WithSQLiteCache(c.Suggestions.Cache))
	}
	return opts
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	fd := int(os.Stdin.Fd())
	raw := term.IsTerminal(fd)

	log := logger
	if raw && !verbose && log.Core().Enabled(zapcore.InfoLevel) {
		// Info lines would scroll the editor away.
		log = log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}

	s := formula.New(sessionOptions(cfg, log)...)
	s.Start(ctx)
	defer s.Close()

	if cfg.Suggestions.File != "" && cfg.Suggestions.Watch {
		w := provider.NewWatcher(cfg.Suggestions.File, func() {
			_ = s.Refresh(ctx)
		}, log)
		if err := w.Start(ctx); err != nil {
			log.Warn("failed to watch suggestion file", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	if !raw {
		return runLines(ctx, os.Stdin, os.Stdout, s, newStyles(os.Stdout))
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		return runLines(ctx, os.Stdin, os.Stdout, s, newStyles(os.Stdout))
	}
	defer term.Restore(fd, oldState)

	return newEditor(s, os.Stdout, newStyles(os.Stdout)).run(os.Stdin)
}

func runEval(cmd *cobra.Command, args []string) error {
	src := strings.Join(args, " ")
	v, err := eval.EvalString(src)
	if err != nil {
		logger.Debug("evaluation failed", zap.String("expression", src), zap.Error(err))
		return fmt.Errorf("%s: %w", eval.InvalidFormulaText, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), expr.FormatNumber(v))
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	p := buildProvider(cfg)
	if p == nil {
		return fmt.Errorf("no suggestion source configured")
	}

	ctx, cancel := signalContext()
	defer cancel()

	items, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	logger.Info("fetched suggestions", zap.Int("count", len(items)))

	snap := suggest.NewSnapshot(items)
	matches := snap.All()
	if len(args) == 1 {
		matches = snap.Filter(args[0], cfg.FilterMode(), cfg.Filter.Limit)
	}
	writeSuggestions(cmd.OutOrStdout(), matches)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if writeConfig {
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		logger.Info("wrote config", zap.String("path", configPath))
		return nil
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
