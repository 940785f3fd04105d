// Command triaged serves the triage REST API.
package main

import (
	"context"
	"log"

	"github.com/carelane/triage/internal/config"
	"github.com/carelane/triage/internal/httpapi"
	"github.com/carelane/triage/internal/llm"
	"github.com/carelane/triage/pkg/triage"
	"github.com/carelane/triage/pkg/triage/explain"
	"github.com/carelane/triage/pkg/triage/rules"
	"github.com/carelane/triage/pkg/triage/store"
	"github.com/carelane/triage/pkg/triage/store/memstore"
	"github.com/carelane/triage/pkg/triage/store/sqlite"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	catalog, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.Fatal(err)
	}

	generator := &explain.Generator{}
	if cfg.OpenAIKey != "" {
		client, err := llm.New(llm.Config{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			log.Fatal(err)
		}
		generator.Text = client
		log.Printf("explanation generation enabled (model %s)", client.Model())
	}

	engine := triage.New(triage.Options{Catalog: catalog, Explainer: generator})

	ctx := context.Background()
	var st store.Store
	if cfg.DBPath != "" {
		st, err = sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		st = memstore.New()
	}
	defer st.Close()

	auth := &httpapi.Auth{
		Mode:         cfg.AuthMode,
		QAToken:      cfg.QAToken,
		OktaDomain:   cfg.OktaDomain,
		OktaClientID: cfg.OktaClientID,
	}

	srv := httpapi.New(engine, st, auth)
	defer srv.Wait()

	log.Printf("triaged listening on %s (%d rules, auth %s)", cfg.Addr, len(catalog.Rules), cfg.AuthMode)
	if err := srv.Router().Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
