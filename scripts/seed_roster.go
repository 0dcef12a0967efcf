// seed_roster.go — standalone script to load a roster file and seed employees
// and projects via the StaffMatch API.
//
// Usage:
//
//	go run scripts/seed_roster.go -roster roster.json -api http://localhost:8700 -client seed
//
// The roster file holds {"employees": [...], "projects": [...]} using the API
// payload shapes. With no -roster flag a small built-in sample is used.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

type roster struct {
	Employees []map[string]interface{} `json:"employees"`
	Projects  []map[string]interface{} `json:"projects"`
}

func main() {
	rosterPath := flag.String("roster", "", "path to roster JSON file")
	apiURL := flag.String("api", "http://localhost:8700", "StaffMatch API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "print payloads without posting")
	flag.Parse()

	r := sampleRoster()
	if *rosterPath != "" {
		data, err := os.ReadFile(*rosterPath)
		if err != nil {
			log.Fatalf("read roster: %v", err)
		}
		if err := json.Unmarshal(data, &r); err != nil {
			log.Fatalf("parse roster: %v", err)
		}
	}

	log.Printf("seeding %d employees, %d projects", len(r.Employees), len(r.Projects))

	if *dryRun {
		for i, e := range r.Employees {
			fmt.Printf("employee[%d] %v\n", i+1, e["employee_id"])
		}
		for i, p := range r.Projects {
			fmt.Printf("project[%d] %v\n", i+1, p["project_id"])
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	post := func(path string, payload map[string]interface{}) {
		body, _ := json.Marshal(payload)
		req, err := http.NewRequest("POST", *apiURL+path, bytes.NewReader(body))
		if err != nil {
			log.Printf("skip: %v", err)
			skipped++
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-ID", *clientID)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip: %v", err)
			skipped++
			return
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip: status %d for %s", resp.StatusCode, path)
			skipped++
		}
	}

	for _, e := range r.Employees {
		post("/api/v1/employees", e)
	}
	for _, p := range r.Projects {
		post("/api/v1/projects", p)
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

func sampleRoster() roster {
	return roster{
		Employees: []map[string]interface{}{
			{
				"employee_id":      "emp-ada",
				"name":             "Ada Novak",
				"skills":           map[string]int{"go": 8, "postgres": 7, "kubernetes": 5},
				"years_experience": 9,
				"available_from":   "2026-09-07T00:00:00Z",
				"weekly_hours":     40,
				"domains":          []string{"fintech", "payments"},
				"languages":        map[string]string{"english": "C1", "german": "B2"},
				"location":         "berlin",
				"flexibility":      "hybrid",
				"certifications":   []string{"aws-saa"},
			},
			{
				"employee_id":      "emp-bo",
				"name":             "Bo Lindqvist",
				"skills":           map[string]int{"go": 5, "react": 8},
				"years_experience": 4,
				"available_from":   "2026-09-01T00:00:00Z",
				"weekly_hours":     32,
				"domains":          []string{"ecommerce"},
				"languages":        map[string]string{"english": "B2", "swedish": "Native"},
				"location":         "stockholm",
				"flexibility":      "remote",
			},
			{
				"employee_id":      "emp-chi",
				"name":             "Chi Okafor",
				"skills":           map[string]int{"python": 9, "go": 6, "postgres": 8},
				"years_experience": 12,
				"available_from":   "2026-10-01T00:00:00Z",
				"weekly_hours":     40,
				"domains":          []string{"fintech", "healthcare"},
				"languages":        map[string]string{"english": "Native", "french": "B1"},
				"location":         "london",
				"flexibility":      "onsite",
				"certifications":   []string{"aws-saa", "cka"},
			},
		},
		Projects: []map[string]interface{}{
			{
				"project_id":      "proj-ledger",
				"title":           "Ledger rebuild",
				"required_skills": map[string]int{"go": 7, "postgres": 6},
				"min_years":       5,
				"effort_hours":    480,
				"end_date":        "2026-12-18T00:00:00Z",
				"domains":         []string{"fintech"},
				"languages":       map[string]string{"english": "B2"},
				"location":        "berlin",
				"flexibility":     "hybrid",
				"complexity":      7,
			},
			{
				"project_id":      "proj-storefront",
				"title":           "Storefront refresh",
				"required_skills": map[string]int{"react": 6},
				"min_years":       2,
				"effort_hours":    160,
				"domains":         []string{"ecommerce"},
				"flexibility":     "remote",
				"complexity":      4,
			},
		},
	}
}
