// Benchmark tool for testing Kestrel against labelled disruption data.
//
// Usage:
//   go run cmd/benchmark/main.go -csv /path/to/claims.csv -url http://localhost:8080
//
// This tool:
//   1. Reads labelled disruption claims (with expected eligibility verdicts)
//   2. Sends each claim to Kestrel for evaluation
//   3. Compares Kestrel's verdict (eligible / ineligible) with the labels
//   4. Calculates precision, recall, F1-score, and confusion matrix
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LabelledClaim represents a row from a labelled claims dataset.
type LabelledClaim struct {
	FlightNumber     string
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	DisruptionType   string
	DelayDuration    string
	DelayReason      string
	NoticeGiven      string
	TicketPrice      float64

	ExpectedEligible bool
	ExpectedAmount   string
}

// CheckRequest is the Kestrel API request format.
type CheckRequest struct {
	FlightNumber     string  `json:"flightNumber"`
	Airline          string  `json:"airline"`
	DepartureAirport string  `json:"departureAirport"`
	ArrivalAirport   string  `json:"arrivalAirport"`
	DisruptionType   string  `json:"disruptionType,omitempty"`
	DelayDuration    string  `json:"delayDuration,omitempty"`
	DelayReason      string  `json:"delayReason,omitempty"`
	NoticeGiven      string  `json:"noticeGiven,omitempty"`
	TicketPrice      float64 `json:"ticketPrice,omitempty"`
}

// CheckResponse is the Kestrel API response format.
type CheckResponse struct {
	EvaluationID string `json:"evaluationId"`
	Result       struct {
		Eligible   bool   `json:"eligible"`
		Amount     string `json:"amount"`
		Confidence int    `json:"confidence"`
		Regulation string `json:"regulation"`
	} `json:"result"`
}

// Metrics tracks benchmark results.
type Metrics struct {
	TruePositives  int64 // Expected eligible, verdict eligible
	FalsePositives int64 // Expected ineligible, verdict eligible
	TrueNegatives  int64 // Expected ineligible, verdict ineligible
	FalseNegatives int64 // Expected eligible, verdict ineligible

	AmountMatches    int64 // Eligible verdicts whose amount matched the label
	AmountMismatches int64

	TotalProcessed int64
	TotalErrors    int64

	ProcessingTimeMs int64
}

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "Path to labelled claims CSV file")
	baseURL := flag.String("url", "http://localhost:8080", "Kestrel base URL")
	tenantID := flag.String("tenant", "benchmark-test", "Tenant ID for requests")
	limit := flag.Int("limit", 10000, "Maximum claims to process (0 = all)")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	verbose := flag.Bool("verbose", false, "Print each claim result")
	flag.Parse()

	if *csvPath == "" {
		fmt.Println("Usage: benchmark -csv /path/to/claims.csv [-url http://localhost:8080]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║         KESTREL BENCHMARK - Labelled Disruption Claims        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nCSV File:    %s\n", *csvPath)
	fmt.Printf("Kestrel URL: %s\n", *baseURL)
	fmt.Printf("Tenant ID:   %s\n", *tenantID)
	fmt.Printf("Workers:     %d\n", *workers)
	fmt.Printf("Limit:       %d\n", *limit)
	fmt.Println()

	// Check Kestrel is running
	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: Kestrel not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure Kestrel is running:")
		fmt.Println("  cd kestrel && go run cmd/kestrel/main.go")
		os.Exit(1)
	}
	fmt.Println("✓ Kestrel is healthy")

	// Read claims data
	fmt.Printf("\nReading claims from %s...\n", *csvPath)
	claims, err := readClaimsCSV(*csvPath, *limit)
	if err != nil {
		fmt.Printf("ERROR: Failed to read CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Loaded %d claims\n", len(claims))

	// Count eligible vs ineligible labels
	eligibleCount := 0
	for _, c := range claims {
		if c.ExpectedEligible {
			eligibleCount++
		}
	}
	fmt.Printf("  - Eligible:   %d (%.2f%%)\n", eligibleCount, 100*float64(eligibleCount)/float64(len(claims)))
	fmt.Printf("  - Ineligible: %d (%.2f%%)\n", len(claims)-eligibleCount, 100*float64(len(claims)-eligibleCount)/float64(len(claims)))

	// Run benchmark
	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runBenchmark(claims, *baseURL, *tenantID, *workers, *verbose)
	duration := time.Since(startTime)

	// Print results
	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func readClaimsCSV(path string, limit int) ([]LabelledClaim, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map column indices
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	col := func(record []string, name string) string {
		if i, ok := colIndex[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	var claims []LabelledClaim

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // Skip malformed rows
		}

		price, _ := strconv.ParseFloat(col(record, "ticket_price"), 64)

		c := LabelledClaim{
			FlightNumber:     col(record, "flight_number"),
			Airline:          col(record, "airline"),
			DepartureAirport: col(record, "departure_airport"),
			ArrivalAirport:   col(record, "arrival_airport"),
			DisruptionType:   col(record, "disruption_type"),
			DelayDuration:    col(record, "delay_duration"),
			DelayReason:      col(record, "delay_reason"),
			NoticeGiven:      col(record, "notice_given"),
			TicketPrice:      price,
			ExpectedEligible: col(record, "expected_eligible") == "1",
			ExpectedAmount:   col(record, "expected_amount"),
		}

		claims = append(claims, c)

		if limit > 0 && len(claims) >= limit {
			break
		}
	}

	return claims, nil
}

func runBenchmark(claims []LabelledClaim, baseURL, tenantID string, numWorkers int, verbose bool) *Metrics {
	metrics := &Metrics{}

	// Create work channel
	work := make(chan LabelledClaim, 100)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 10 * time.Second}

			for c := range work {
				start := time.Now()
				result, err := checkClaim(client, baseURL, tenantID, c)
				elapsed := time.Since(start).Milliseconds()

				atomic.AddInt64(&metrics.ProcessingTimeMs, elapsed)
				atomic.AddInt64(&metrics.TotalProcessed, 1)

				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: %s -> %v\n", c.FlightNumber, err)
					}
					continue
				}

				// Calculate confusion matrix
				predicted := result.Result.Eligible
				actual := c.ExpectedEligible

				if predicted && actual {
					atomic.AddInt64(&metrics.TruePositives, 1)
				} else if predicted && !actual {
					atomic.AddInt64(&metrics.FalsePositives, 1)
				} else if !predicted && !actual {
					atomic.AddInt64(&metrics.TrueNegatives, 1)
				} else { // !predicted && actual
					atomic.AddInt64(&metrics.FalseNegatives, 1)
				}

				// Amount agreement on eligible verdicts with a labelled amount
				if predicted && actual && c.ExpectedAmount != "" {
					if result.Result.Amount == c.ExpectedAmount {
						atomic.AddInt64(&metrics.AmountMatches, 1)
					} else {
						atomic.AddInt64(&metrics.AmountMismatches, 1)
					}
				}

				if verbose {
					status := "✓"
					if predicted != actual {
						status = "✗"
					}
					fmt.Printf("%s %-8s | %s -> %s | %-15s | Expected: %-5v | Verdict: %-5v %s (%s)\n",
						status,
						c.FlightNumber,
						c.DepartureAirport,
						c.ArrivalAirport,
						c.DisruptionType,
						actual,
						predicted,
						result.Result.Amount,
						result.Result.Regulation,
					)
				}
			}
		}()
	}

	// Send work
	for _, c := range claims {
		work <- c
	}
	close(work)

	// Wait for completion
	wg.Wait()

	return metrics
}

func checkClaim(client *http.Client, baseURL, tenantID string, c LabelledClaim) (*CheckResponse, error) {
	req := CheckRequest{
		FlightNumber:     c.FlightNumber,
		Airline:          c.Airline,
		DepartureAirport: c.DepartureAirport,
		ArrivalAirport:   c.ArrivalAirport,
		DisruptionType:   c.DisruptionType,
		DelayDuration:    c.DelayDuration,
		DelayReason:      c.DelayReason,
		NoticeGiven:      c.NoticeGiven,
		TicketPrice:      c.TicketPrice,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/check", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-ID", tenantID)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      BENCHMARK RESULTS                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Printf("\n📊 DATASET STATISTICS\n")
	fmt.Printf("   Total Processed:  %d\n", m.TotalProcessed)
	fmt.Printf("   Errors:           %d\n", m.TotalErrors)

	fmt.Printf("\n📈 CONFUSION MATRIX\n")
	fmt.Println("                          Verdict")
	fmt.Println("                  Eligible    Ineligible")
	fmt.Println("              ┌──────────┬──────────┐")
	fmt.Printf("   Label   E  │ %8d │ %8d │  (TP, FN)\n", m.TruePositives, m.FalseNegatives)
	fmt.Println("              ├──────────┼──────────┤")
	fmt.Printf("           I  │ %8d │ %8d │  (FP, TN)\n", m.FalsePositives, m.TrueNegatives)
	fmt.Println("              └──────────┴──────────┘")

	// Calculate metrics
	precision := float64(0)
	if m.TruePositives+m.FalsePositives > 0 {
		precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}

	recall := float64(0)
	if m.TruePositives+m.FalseNegatives > 0 {
		recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}

	f1 := float64(0)
	if precision+recall > 0 {
		f1 = 2 * (precision * recall) / (precision + recall)
	}

	accuracy := float64(0)
	total := m.TruePositives + m.TrueNegatives + m.FalsePositives + m.FalseNegatives
	if total > 0 {
		accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(total)
	}

	fmt.Printf("\n🎯 VERDICT METRICS\n")
	fmt.Printf("   Precision:  %.4f  (of eligible verdicts, how many were labelled eligible)\n", precision)
	fmt.Printf("   Recall:     %.4f  (of labelled eligible, how many did we find)\n", recall)
	fmt.Printf("   F1-Score:   %.4f  (harmonic mean of precision & recall)\n", f1)
	fmt.Printf("   Accuracy:   %.4f  (overall correct verdicts)\n", accuracy)

	if m.AmountMatches+m.AmountMismatches > 0 {
		amountAcc := float64(m.AmountMatches) / float64(m.AmountMatches+m.AmountMismatches)
		fmt.Printf("\n💶 AMOUNT AGREEMENT\n")
		fmt.Printf("   Matched:    %d / %d (%.2f%%)\n", m.AmountMatches, m.AmountMatches+m.AmountMismatches, amountAcc*100)
	}

	fmt.Printf("\n⏱️  PERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if m.TotalProcessed > 0 {
		avgMs := float64(m.ProcessingTimeMs) / float64(m.TotalProcessed)
		cps := float64(m.TotalProcessed) / duration.Seconds()
		fmt.Printf("   Avg Latency:      %.2f ms\n", avgMs)
		fmt.Printf("   Throughput:       %.2f claims/sec\n", cps)
	}

	fmt.Println()
}
