package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/agents/responder"
	"github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/agents/roles"
	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	llmx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/llm"
	"github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/notify"
	"github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/rulebook"
	statex "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/state"
	configx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/config"
	logx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/logger"
	_ "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/openrouter"
)

func main() {
	logger := logx.Component("main")
	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	responderCfg := configx.MustNew[responder.Config]("")
	notifyCfg := configx.MustNew[notify.Config]("")

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: responder [-env path] <contact-key> < messages")
		os.Exit(2)
	}
	contactKey := args[0]

	store, closeStore := newProfileStore(logger)
	defer closeStore()

	rules := newRulebook(ctx, logger)
	defer rules.Close()

	dispatcher, err := notify.NewDispatcher(*notifyCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("build notification dispatcher")
	}
	if !dispatcher.Enabled() {
		logger.Info().Msg("contact notifications not configured")
	}

	// Fail fast on broken OpenRouter credentials before compiling the graphs.
	if openrouterx.NewClient(llmCfg.OpenRouterFor(contractx.RoleAnalyzer)) == nil {
		logger.Fatal().Msg("initialize openrouter client")
	}

	registry, err := roles.NewRegistry(ctx, *llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("build model registry")
	}

	r, err := responder.New(store, registry, rules, dispatcher, *responderCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("build responder")
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Fatal().Err(err).Msg("read messages from stdin")
	}

	replies, err := r.Respond(ctx, contactKey, string(raw))
	if err != nil {
		logger.Fatal().Err(err).Msg("respond cycle failed")
	}
	for _, reply := range replies {
		fmt.Println(reply)
	}
}

// newProfileStore picks the Redis backend: a direct connection when
// REDIS_ADDR is set, the Upstash REST API otherwise.
func newProfileStore(logger zerolog.Logger) (statex.Store, func()) {
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		cfg := configx.MustNew[statex.RedisConfig]("REDIS")
		store, err := statex.NewRedisStore(*cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("build redis profile store")
		}
		return store, func() { _ = store.Close() }
	}

	cfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	store, err := statex.NewUpstashRedisStore(*cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("build upstash profile store")
	}
	return store, func() {}
}

func newRulebook(ctx context.Context, logger zerolog.Logger) *rulebook.Store {
	cfg := configx.MustNew[rulebook.Config]("RULEBOOK")
	store, err := rulebook.NewStore(*cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open rulebook database")
	}
	if err := store.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping rulebook database")
	}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure rulebook schema")
	}
	return store
}
