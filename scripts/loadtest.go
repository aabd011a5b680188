//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const baseURL = "http://localhost:8080"

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    int64
	MinLatency      int64
	MaxLatency      int64
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Println("CampusPool Load Test")
	fmt.Println("====================")

	fmt.Println("\n1. Creating test accounts...")
	adminToken := login("admin@rvce.edu.in", "admin@123")
	if adminToken == "" {
		log.Fatal("Failed to log in as admin; is the server running with default config?")
	}

	driverTokens := createAccounts(adminToken, "driver", 5)
	riderTokens := createAccounts(adminToken, "rider", 20)
	if len(driverTokens) == 0 || len(riderTokens) == 0 {
		log.Fatal("Failed to create test accounts")
	}
	fmt.Printf("Created %d drivers and %d riders\n", len(driverTokens), len(riderTokens))

	fmt.Println("\n2. Testing Ride Posting (100 rides, 10 concurrent)...")
	stats := testRidePosting(driverTokens, 100, 10)
	printStats("Ride Posting", stats)

	fmt.Println("\n3. Testing Ride Browsing (1000 requests, 50 concurrent)...")
	stats = testRideBrowsing(riderTokens, 1000, 50)
	printStats("Ride Browsing", stats)

	fmt.Println("\nLoad test completed!")
}

func login(email, password string) string {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(baseURL+"/api/auth/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return ""
	}
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	token, _ := result["token"].(string)
	return token
}

// createAccounts signs up n users with the given role, then verifies each one
// through the admin endpoint so they can post and request rides.
func createAccounts(adminToken, role string, n int) []string {
	tokens := make([]string, 0, n)
	for i := 0; i < n; i++ {
		account := map[string]string{
			"email":    fmt.Sprintf("loadtest-%s-%d-%d@rvce.edu.in", role, i, time.Now().UnixNano()),
			"password": "loadtest-pass-123",
			"name":     fmt.Sprintf("LoadTest %s %d", role, i),
			"role":     role,
		}
		body, _ := json.Marshal(account)
		resp, err := http.Post(baseURL+"/api/auth/signup", "application/json", bytes.NewBuffer(body))
		if err != nil {
			continue
		}

		if resp.StatusCode != 201 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			continue
		}
		var result struct {
			Token string `json:"token"`
			User  struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()

		verifyBody, _ := json.Marshal(map[string]string{"status": "verified"})
		req, _ := http.NewRequest("PUT",
			baseURL+"/api/admin/users/"+result.User.ID+"/verification", bytes.NewBuffer(verifyBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+adminToken)
		if vresp, err := http.DefaultClient.Do(req); err == nil {
			io.Copy(io.Discard, vresp.Body)
			vresp.Body.Close()
		}

		tokens = append(tokens, result.Token)
	}
	return tokens
}

func testRidePosting(driverTokens []string, numRequests, concurrency int) *Stats {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	destinations := []string{"Majestic", "Indiranagar", "Koramangala", "Whitefield", "Jayanagar"}

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, token string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			departure := time.Now().AddDate(0, 0, 1+rand.Intn(7))
			ride := map[string]interface{}{
				"source":         "RV College of Engineering",
				"destination":    destinations[rand.Intn(len(destinations))],
				"date":           departure.Format("2006-01-02"),
				"time":           fmt.Sprintf("%02d:%02d", 7+rand.Intn(12), 15*rand.Intn(4)),
				"total_seats":    1 + rand.Intn(4),
				"estimated_cost": float64(50 + rand.Intn(250)),
			}
			body, _ := json.Marshal(ride)

			req, _ := http.NewRequest("POST", baseURL+"/api/rides", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Idempotency-Key", fmt.Sprintf("load-test-ride-%d-%d", idx, time.Now().UnixNano()))

			record(stats, req, 201)
		}(i, driverTokens[rand.Intn(len(driverTokens))])
	}

	wg.Wait()
	return stats
}

func testRideBrowsing(riderTokens []string, numRequests, concurrency int) *Stats {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(token string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			req, _ := http.NewRequest("GET", baseURL+"/api/rides", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			record(stats, req, 200)
		}(riderTokens[rand.Intn(len(riderTokens))])
	}

	wg.Wait()
	return stats
}

func record(stats *Stats, req *http.Request, wantStatus int) {
	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	latency := time.Since(start).Milliseconds()

	atomic.AddInt64(&stats.TotalRequests, 1)
	atomic.AddInt64(&stats.TotalLatency, latency)

	if err != nil || resp.StatusCode != wantStatus {
		atomic.AddInt64(&stats.FailedRequests, 1)
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	atomic.AddInt64(&stats.SuccessRequests, 1)

	for {
		old := atomic.LoadInt64(&stats.MinLatency)
		if latency >= old || atomic.CompareAndSwapInt64(&stats.MinLatency, old, latency) {
			break
		}
	}
	for {
		old := atomic.LoadInt64(&stats.MaxLatency)
		if latency <= old || atomic.CompareAndSwapInt64(&stats.MaxLatency, old, latency) {
			break
		}
	}
}

func printStats(name string, stats *Stats) {
	avgLatency := float64(0)
	if stats.TotalRequests > 0 {
		avgLatency = float64(stats.TotalLatency) / float64(stats.TotalRequests)
	}

	fmt.Printf("\n%s Results:\n", name)
	fmt.Printf("  Total Requests:   %d\n", stats.TotalRequests)
	fmt.Printf("  Successful:       %d\n", stats.SuccessRequests)
	fmt.Printf("  Failed:           %d\n", stats.FailedRequests)
	fmt.Printf("  Success Rate:     %.2f%%\n", float64(stats.SuccessRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("  Avg Latency:      %.2f ms\n", avgLatency)
	if stats.MinLatency != int64(^uint64(0)>>1) {
		fmt.Printf("  Min Latency:      %d ms\n", stats.MinLatency)
	}
	fmt.Printf("  Max Latency:      %d ms\n", stats.MaxLatency)
	fmt.Printf("  Throughput:       %.0f req/s\n", float64(stats.TotalRequests)/(float64(stats.TotalLatency)/1000))
}
