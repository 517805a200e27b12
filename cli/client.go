package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"
)

// ApiClient handles API requests to the Halwa House API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
	UseMock    bool
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("HALWAHOUSE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
		Token:   os.Getenv("HALWAHOUSE_TOKEN"),
		UseMock: false, // Default to trying the real server first
	}

	// Verify connectivity - if server is not available, use mock data
	if !client.ping() {
		fmt.Printf("Warning: API server at %s is not available. Using mock data.\n", baseURL)
		client.UseMock = true
	}

	return client
}

// ping checks if the API server is available
func (c *ApiClient) ping() bool {
	url := fmt.Sprintf("%s/health", c.BaseURL)
	resp, err := http.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// Batch represents one production run as the API reports it
type Batch struct {
	ID             uint      `json:"ID"`
	HalwaTypeIDs   []uint    `json:"halwa_type_ids"`
	HalwaTypeNames []string  `json:"halwa_type_names"`
	DisplayLabel   string    `json:"display_label"`
	StarchWeight   float64   `json:"starch_weight"`
	ChefID         string    `json:"chef_id"`
	TotalDuration  float64   `json:"total_duration"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"CreatedAt"`
	Processes      []Process `json:"processes,omitempty"`
}

// Process is one timed step inside a batch
type Process struct {
	ID              uint       `json:"ID"`
	BatchID         uint       `json:"batch_id"`
	ProcessTypeID   uint       `json:"process_type_id"`
	Sequence        int        `json:"sequence"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
}

// ProcessCheck is the per-step tolerance verdict inside a report
type ProcessCheck struct {
	ProcessID       uint    `json:"process_id"`
	ProcessTypeID   uint    `json:"process_type_id"`
	ProcessTypeName string  `json:"process_type_name"`
	Sequence        int     `json:"sequence"`
	DurationMinutes float64 `json:"duration_minutes"`
	Status          string  `json:"status"`
	Deviation       string  `json:"deviation,omitempty"`
}

// Report is the batch validation report the API returns
type Report struct {
	BatchID             uint           `json:"batch_id"`
	Status              string         `json:"status"`
	TotalDuration       float64        `json:"total_duration"`
	Checks              []ProcessCheck `json:"checks"`
	HardViolations      int            `json:"hard_violations"`
	UnfinishedProcesses int            `json:"unfinished_processes"`
	Partial             bool           `json:"partial"`
}

// newRequest builds an API request with the bearer token attached
func (c *ApiClient) newRequest(method, path string, body []byte) (*http.Request, error) {
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

// GetBatches retrieves all batches, newest first
func (c *ApiClient) GetBatches() ([]Batch, error) {
	if c.UseMock {
		return c.getMockBatches(), nil
	}

	req, err := c.newRequest("GET", "/api/v1/batches", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list batches: %s", string(body))
	}

	var batches []Batch
	err = json.Unmarshal(body, &batches)
	if err != nil {
		return nil, err
	}

	return batches, nil
}

// GetBatch retrieves a specific batch by ID
func (c *ApiClient) GetBatch(id uint) (*Batch, error) {
	if c.UseMock {
		return c.getMockBatch(id), nil
	}

	req, err := c.newRequest("GET", fmt.Sprintf("/api/v1/batches/%d", id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get batch: %s", string(body))
	}

	var batch Batch
	err = json.Unmarshal(body, &batch)
	if err != nil {
		return nil, err
	}

	return &batch, nil
}

// CreateBatch creates a new batch from the given halwa type ids
func (c *ApiClient) CreateBatch(starchWeight float64, halwaTypeIDs []uint) (*Batch, error) {
	if c.UseMock {
		return c.createMockBatch(starchWeight, halwaTypeIDs), nil
	}

	data, err := json.Marshal(map[string]interface{}{
		"starch_weight":  starchWeight,
		"halwa_type_ids": halwaTypeIDs,
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest("POST", "/api/v1/batches", data)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("failed to create batch: %s", string(body))
	}

	var created Batch
	err = json.Unmarshal(body, &created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// StartProcess marks the start of a timed step
func (c *ApiClient) StartProcess(id uint) (*Process, error) {
	return c.processAction(id, "start")
}

// StopProcess marks the end of a timed step
func (c *ApiClient) StopProcess(id uint) (*Process, error) {
	return c.processAction(id, "stop")
}

func (c *ApiClient) processAction(id uint, action string) (*Process, error) {
	if c.UseMock {
		return c.mockProcessAction(id, action), nil
	}

	req, err := c.newRequest("POST", fmt.Sprintf("/api/v1/processes/%d/%s", id, action), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to %s process: %s", action, string(body))
	}

	var process Process
	err = json.Unmarshal(body, &process)
	if err != nil {
		return nil, err
	}

	return &process, nil
}

// GetReport retrieves the non-finalizing validation preview for a batch
func (c *ApiClient) GetReport(id uint) (*Report, error) {
	if c.UseMock {
		return c.getMockReport(id), nil
	}

	req, err := c.newRequest("GET", fmt.Sprintf("/api/v1/batches/%d/report", id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get report: %s", string(body))
	}

	var report Report
	err = json.Unmarshal(body, &report)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// ValidateBatch finalizes a batch and returns the persisted report
func (c *ApiClient) ValidateBatch(id uint) (*Report, error) {
	if c.UseMock {
		return c.getMockReport(id), nil
	}

	req, err := c.newRequest("POST", fmt.Sprintf("/api/v1/batches/%d/validate", id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to validate batch: %s", string(body))
	}

	var report Report
	err = json.Unmarshal(body, &report)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// Mock data generators
// getMockBatches generates mock batch data
func (c *ApiClient) getMockBatches() []Batch {
	started := time.Now().Add(-45 * time.Minute)
	stopped := started.Add(32 * time.Minute)
	dur := stopped.Sub(started).Minutes()

	return []Batch{
		{
			ID:             3,
			HalwaTypeNames: []string{"Omani Royal"},
			HalwaTypeIDs:   []uint{1},
			DisplayLabel:   "Omani Royal",
			StarchWeight:   12.5,
			ChefID:         "chef-1",
			Status:         "pending",
			CreatedAt:      time.Now().Add(-50 * time.Minute),
			Processes: []Process{
				{ID: 7, BatchID: 3, ProcessTypeID: 1, Sequence: 1, StartTime: &started, EndTime: &stopped, DurationMinutes: &dur},
				{ID: 8, BatchID: 3, ProcessTypeID: 2, Sequence: 2, StartTime: &stopped},
			},
		},
		{
			ID:             2,
			HalwaTypeNames: []string{"Saffron", "Walnut"},
			HalwaTypeIDs:   []uint{2, 3},
			DisplayLabel:   "Saffron + Walnut",
			StarchWeight:   20,
			ChefID:         "chef-2",
			Status:         "good",
			TotalDuration:  95.4,
			CreatedAt:      time.Now().Add(-3 * time.Hour),
		},
		{
			ID:             1,
			HalwaTypeNames: []string{"Saffron"},
			HalwaTypeIDs:   []uint{2},
			DisplayLabel:   "Saffron",
			StarchWeight:   10,
			ChefID:         "chef-1",
			Status:         "shift_detected",
			TotalDuration:  141.2,
			CreatedAt:      time.Now().Add(-26 * time.Hour),
		},
	}
}

// getMockBatch returns a mock batch by ID
func (c *ApiClient) getMockBatch(id uint) *Batch {
	batches := c.getMockBatches()
	for _, batch := range batches {
		if batch.ID == id {
			return &batch
		}
	}
	return nil
}

// createMockBatch simulates creating a new batch
func (c *ApiClient) createMockBatch(starchWeight float64, halwaTypeIDs []uint) *Batch {
	names := make([]string, len(halwaTypeIDs))
	for i, id := range halwaTypeIDs {
		names[i] = fmt.Sprintf("Type %d", id)
	}

	return &Batch{
		ID:             uint(time.Now().Unix() % 1000), // Random-ish ID
		HalwaTypeIDs:   halwaTypeIDs,
		HalwaTypeNames: names,
		StarchWeight:   starchWeight,
		Status:         "pending",
		CreatedAt:      time.Now(),
	}
}

// mockProcessAction simulates starting or stopping a process
func (c *ApiClient) mockProcessAction(id uint, action string) *Process {
	now := time.Now()
	process := &Process{ID: id, Sequence: 1, StartTime: &now}
	if action == "stop" {
		end := now.Add(30 * time.Minute)
		dur := 30.0
		process.EndTime = &end
		process.DurationMinutes = &dur
	}
	return process
}

// getMockReport returns a mock validation report
func (c *ApiClient) getMockReport(id uint) *Report {
	return &Report{
		BatchID:       id,
		Status:        "moderate",
		TotalDuration: 78.3,
		Checks: []ProcessCheck{
			{ProcessID: 7, ProcessTypeName: "Boil", Sequence: 1, DurationMinutes: 32, Status: "ok"},
			{ProcessID: 8, ProcessTypeName: "Stir", Sequence: 2, DurationMinutes: 46.3, Status: "moderate", Deviation: "above by 6.30 min"},
		},
	}
}
