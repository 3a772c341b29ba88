// Command tune runs the nightly similarity-weight retuning pipeline
// against a deployment config and a batch of recorded feedback events,
// then writes the updated config back to disk.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"hangul-fuzzy-search/pkg/deploy"
	"hangul-fuzzy-search/pkg/feedback"
	"hangul-fuzzy-search/pkg/ranking"
	"hangul-fuzzy-search/pkg/searchindex"
	"hangul-fuzzy-search/pkg/tuning"
)

type catalogItem struct {
	Key string `json:"key"`
}

func main() {
	configPath := flag.String("config", "deployment.json", "deployment config path (read and overwritten)")
	eventsPath := flag.String("events", "", "path to a JSON array of feedback events (required)")
	catalogPath := flag.String("catalog", "", "path to a JSON array of {\"key\": ...} catalog items (required)")
	environment := flag.String("environment", "production", "target environment")
	promoteTreatment := flag.Bool("promote-treatment", true, "land best weights as a new treatment arm instead of replacing control")
	flag.Parse()

	if *eventsPath == "" || *catalogPath == "" {
		log.Fatal("-events and -catalog are required")
	}

	now := time.Now()

	current, err := deploy.LoadOrDefault(*configPath, now)
	if err != nil {
		log.Fatalf("loading deployment config: %v", err)
	}

	events, err := loadEvents(*eventsPath)
	if err != nil {
		log.Fatalf("loading feedback events: %v", err)
	}
	catalog, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("loading catalog: %v", err)
	}

	store := feedback.NewStore(len(events)+1, 0)
	store.RecordAll(events, now)

	policy := searchindex.DefaultPolicy()
	index := searchindex.New(catalog, func(it catalogItem) string { return it.Key }, policy, now)

	opts := deploy.NightlyTuningOptions{
		Environment:        *environment,
		ModelVersionPrefix: "nightly",
		MinOccurrences:     1,
		MaxSamples:         2000,
		TuningOptions:      tuning.DefaultOptions(),
		PromoteToTreatment: *promoteTreatment,
		TreatmentRatio:     0.1,
	}

	var src ranking.Source = index
	result, err := deploy.RunNightlyTuning(current, store, src, opts, now)
	if err != nil {
		log.Fatalf("nightly tuning failed: %v", err)
	}

	if err := deploy.Save(*configPath, result.Config); err != nil {
		log.Fatalf("saving deployment config: %v", err)
	}

	fmt.Printf("retuned %q against %d samples\n", *environment, result.SampleCount)
	fmt.Printf("baseline mrr=%.4f top1=%.4f top3=%.4f\n",
		result.TuningResult.BaselineMetrics.MRR, result.TuningResult.BaselineMetrics.Top1, result.TuningResult.BaselineMetrics.Top3)
	fmt.Printf("best     mrr=%.4f top1=%.4f top3=%.4f\n",
		result.TuningResult.BestMetrics.MRR, result.TuningResult.BestMetrics.Top1, result.TuningResult.BestMetrics.Top3)
	fmt.Printf("new model version: %s\n", result.Config.ModelVersion)
}

func loadEvents(path string) ([]feedback.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		Query       string    `json:"query"`
		SelectedKey string    `json:"selectedKey"`
		Timestamp   time.Time `json:"timestamp"`
		Outcome     string    `json:"outcome"`
		Locale      string    `json:"locale"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]feedback.Event, len(raw))
	for i, r := range raw {
		outcome := feedback.Unknown
		switch r.Outcome {
		case "acceptedSuggestion":
			outcome = feedback.AcceptedSuggestion
		case "clickedResult":
			outcome = feedback.ClickedResult
		case "noSuggestion":
			outcome = feedback.NoSuggestion
		}
		out[i] = feedback.Event{
			Query:       r.Query,
			SelectedKey: r.SelectedKey,
			Timestamp:   r.Timestamp,
			Outcome:     outcome,
			Locale:      r.Locale,
		}
	}
	return out, nil
}

func loadCatalog(path string) ([]catalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []catalogItem
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
