package circumstances

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestKeywordFallback(t *testing.T) {
	svc := NewService(nil, time.Second)
	ctx := context.Background()

	tests := []struct {
		name   string
		reason string
		want   bool
	}{
		{"weather", "severe weather over the Alps", true},
		{"storm", "thunderstorm at destination", true},
		{"snow", "heavy snow closed the runway", true},
		{"compound snowstorm", "snowstorm at Toronto Pearson", true},
		{"compound plural thunderstorms", "thunderstorms along the route", true},
		{"fog", "dense fog reduced visibility", true},
		{"ice", "ice on the wings", true},
		{"ice inside deicing", "deicing backlog on the apron", true},
		{"security", "security incident at the terminal", true},
		{"bomb threat", "bomb threat forced evacuation", true},
		{"atc", "ATC slot restrictions", true},
		{"air traffic control", "air traffic control congestion in London", true},
		{"strike", "ground crew strike", true},
		{"industrial action", "industrial action by baggage handlers", true},
		{"bird strike", "bird strike on approach", true},
		{"medical", "medical emergency diversion", true},
		{"emergency landing", "emergency landing in Vienna", true},
		{"technical fault not extraordinary", "technical fault with the aircraft", false},
		{"crew shortage not extraordinary", "crew scheduling problem", false},
		// Substring contract: "service" contains "ice". The fallback trades
		// this false positive for never missing a compound like "snowstorm".
		{"ice substring inside service", "poor service and late notice", true},
		{"empty reason", "", false},
		{"whitespace reason", "   ", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.IsExtraordinary(ctx, tc.reason)
			if got != tc.want {
				t.Errorf("IsExtraordinary(%q) = %v, want %v", tc.reason, got, tc.want)
			}
		})
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	svc := NewService(nil, time.Second)
	ctx := context.Background()

	first := svc.Assess(ctx, "hurricane warning at departure airport")
	for i := 0; i < 10; i++ {
		got := svc.Assess(ctx, "hurricane warning at departure airport")
		if got != first {
			t.Fatalf("fallback not deterministic: %+v vs %+v", got, first)
		}
	}
	if first.Source != SourceKeyword {
		t.Errorf("expected keyword source, got %s", first.Source)
	}
	if first.Category != "weather" {
		t.Errorf("expected weather category, got %q", first.Category)
	}
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(ctx context.Context, reason string) (*Assessment, error) {
	return nil, errors.New("api unavailable")
}

type slowAnalyzer struct{}

func (slowAnalyzer) Analyze(ctx context.Context, reason string) (*Assessment, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Minute):
		return &Assessment{IsExtraordinary: true}, nil
	}
}

type fixedAnalyzer struct {
	result Assessment
}

func (f fixedAnalyzer) Analyze(ctx context.Context, reason string) (*Assessment, error) {
	r := f.result
	return &r, nil
}

func TestLLMFailureFallsBack(t *testing.T) {
	svc := NewService(failingAnalyzer{}, time.Second)

	got := svc.Assess(context.Background(), "snowstorm grounded all departures")
	if !got.IsExtraordinary {
		t.Error("fallback should classify snowstorm as extraordinary")
	}
	if got.Source != SourceKeyword {
		t.Errorf("expected keyword source after LLM failure, got %s", got.Source)
	}
}

func TestLLMTimeoutFallsBack(t *testing.T) {
	svc := NewService(slowAnalyzer{}, 10*time.Millisecond)

	start := time.Now()
	got := svc.Assess(context.Background(), "fog at the airport")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout not bounded: took %v", elapsed)
	}
	if !got.IsExtraordinary || got.Source != SourceKeyword {
		t.Errorf("expected keyword fallback verdict, got %+v", got)
	}
}

func TestLLMSuccessWins(t *testing.T) {
	svc := NewService(fixedAnalyzer{result: Assessment{
		IsExtraordinary: true,
		Confidence:      95,
		Category:        "weather",
	}}, time.Second)

	// "volcanic ash" has no keyword match; only the LLM path can catch it.
	got := svc.Assess(context.Background(), "volcanic ash cloud")
	if !got.IsExtraordinary {
		t.Error("LLM verdict should be used when the call succeeds")
	}
	if got.Source != SourceLLM {
		t.Errorf("expected llm source, got %s", got.Source)
	}
}

func TestWithinAirlineControl(t *testing.T) {
	tests := []struct {
		reason string
		want   bool
	}{
		{"crew scheduling error", true},
		{"aircraft maintenance overrun", true},
		{"", true},
		{"snowstorm at Toronto Pearson", false},
		{"thunderstorms over the prairies", false},
		{"ATC flow restrictions", false},
		{"security screening delays", false},
	}

	for _, tc := range tests {
		if got := WithinAirlineControl(tc.reason); got != tc.want {
			t.Errorf("WithinAirlineControl(%q) = %v, want %v", tc.reason, got, tc.want)
		}
	}
}
