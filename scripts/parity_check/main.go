package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// probe is one request replayed against both deployments. Only requests that
// leave the sheet untouched belong here.
type probe struct {
	Name     string          `json:"name"`
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Ignore   []string        `json:"ignore,omitempty"`
	Critical bool            `json:"critical"`
}

type probeFile struct {
	Probes []probe `json:"probes"`
}

type outcome struct {
	Probe        probe
	LegacyStatus int
	GoStatus     int
	StatusMatch  bool
	BodyMatch    bool
	Err          error
}

func main() {
	var (
		goBase     string
		legacyBase string
		probesPath string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go service base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "legacy form backend base URL")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "parity_check", "probes.json"), "path to JSON probe file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	probes, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var results []outcome
	breaking := 0
	for _, p := range probes {
		res := run(client, goBase, legacyBase, p)
		if res.Err != nil || !res.StatusMatch || !res.BodyMatch {
			if p.Critical {
				breaking++
			}
		}
		results = append(results, res)
	}

	report(results)
	if breaking > 0 {
		fmt.Printf("%d critical probe(s) differ\n", breaking)
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file probeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return file.Probes, nil
}

func run(client *http.Client, goBase, legacyBase string, p probe) outcome {
	res := outcome{Probe: p}

	goStatus, goBody, err := send(client, goBase, p)
	if err != nil {
		res.Err = fmt.Errorf("go: %w", err)
		return res
	}
	legacyStatus, legacyBody, err := send(client, legacyBase, p)
	if err != nil {
		res.Err = fmt.Errorf("legacy: %w", err)
		return res
	}

	res.GoStatus = goStatus
	res.LegacyStatus = legacyStatus
	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = sameJSON(goBody, legacyBody, p.Ignore)
	return res
}

func send(client *http.Client, base string, p probe) (int, []byte, error) {
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}
	url := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p.Path, "/")

	var body io.Reader
	if len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// sameJSON compares two bodies as JSON objects, skipping top-level keys whose
// values are expected to differ between runs.
func sameJSON(a, b []byte, ignore []string) bool {
	var aj, bj map[string]interface{}
	if json.Unmarshal(a, &aj) != nil || json.Unmarshal(b, &bj) != nil {
		return bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b))
	}
	for _, key := range ignore {
		delete(aj, key)
		delete(bj, key)
	}
	return reflect.DeepEqual(aj, bj)
}

func report(results []outcome) {
	fmt.Println("Parity Report")
	fmt.Println("=============")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Err != nil:
			status = "ERROR"
		case !res.StatusMatch || !res.BodyMatch:
			status = "DIFF"
		}
		fmt.Printf("[%s] %s (%s %s)\n", status, res.Probe.Name, res.Probe.Method, res.Probe.Path)
		if res.Err != nil {
			fmt.Printf("  error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  status go=%d legacy=%d | body match: %t | critical: %t\n",
			res.GoStatus, res.LegacyStatus, res.BodyMatch, res.Probe.Critical)
	}
}
