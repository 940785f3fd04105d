// Command triage-cli evaluates a single triage request against a rule
// catalog and prints the result as JSON. No server or database needed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carelane/triage/pkg/triage"
	"github.com/carelane/triage/pkg/triage/rules"
)

func main() {
	var (
		rulesPath   = flag.String("rules", "rules.yaml", "Rule catalog file")
		requestPath = flag.String("request", "", "JSON request file (overrides field flags)")
		symptoms    = flag.String("symptoms", "", "Comma-separated symptoms (required)")
		severity    = flag.String("severity", "", "Severity level")
		duration    = flag.String("duration", "", "Symptom duration")
		temperature = flag.String("temperature", "", "Body temperature")
		factors     = flag.String("factors", "", "Comma-separated additional factors")
		age         = flag.Int("age", 0, "Patient age")
		sessionID   = flag.String("session", "", "Session id (generated when empty)")
	)
	flag.Parse()

	catalog, err := rules.Load(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}

	var req triage.Request
	if *requestPath != "" {
		data, err := os.ReadFile(*requestPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			log.Fatalf("parse request: %v", err)
		}
	} else {
		req = triage.Request{
			Symptoms:          splitList(*symptoms),
			Severity:          *severity,
			Duration:          *duration,
			Temperature:       *temperature,
			AdditionalFactors: splitList(*factors),
			PatientAge:        *age,
			SessionID:         *sessionID,
		}
	}
	if len(req.Symptoms) == 0 {
		log.Fatal("--symptoms required (or a --request file with a symptoms list)")
	}

	engine := triage.New(triage.Options{Catalog: catalog})
	result := engine.Evaluate(context.Background(), req)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
