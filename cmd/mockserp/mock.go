package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errProviderUnavailable = errors.New("provider unavailable")

// profile controls how a mock provider misbehaves.
type profile struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
}

var profiles = map[string]profile{
	"steady": {minLatency: 50 * time.Millisecond, maxLatency: 200 * time.Millisecond, failureRate: 0.10},
	"flaky":  {minLatency: 75 * time.Millisecond, maxLatency: 300 * time.Millisecond, failureRate: 0.15},
	"slow":   {minLatency: 500 * time.Millisecond, maxLatency: 2 * time.Second, failureRate: 0.05},
	"ideal":  {},
}

type hotel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RegionID int    `json:"region_id"`
	Rates    []rate `json:"rates,omitempty"`
	prices   []float64
}

type rate struct {
	DailyPrices []float64 `json:"daily_prices"`
}

type region struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var catalog = struct {
	regions []region
	hotels  []hotel
}{
	regions: []region{
		{ID: 536, Name: "Berlin"},
		{ID: 2734, Name: "Paris"},
		{ID: 6053839, Name: "Lisbon"},
	},
	hotels: []hotel{
		{ID: "berlin_grand", Name: "Grand Hotel Berlin", RegionID: 536, prices: []float64{180, 195.5}},
		{ID: "berlin_budget", Name: "Budget Stay Mitte", RegionID: 536, prices: []float64{62.4}},
		{ID: "paris_city_inn", Name: "City Center Inn Paris", RegionID: 2734, prices: []float64{120, 110}},
		{ID: "paris_palace", Name: "Luxury Palace", RegionID: 2734, prices: []float64{420}},
		{ID: "lisbon_alfama", Name: "Alfama Guesthouse", RegionID: 6053839, prices: []float64{75}},
	},
}

// Mock is a fake SERP provider.
type Mock struct {
	profile profile
	mu      sync.Mutex
	rng     *rand.Rand
	logger  *zap.Logger
}

// NewMock creates a new Mock provider.
func NewMock(p profile, logger *zap.Logger) *Mock {
	return &Mock{
		profile: p,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logger,
	}
}

// Register mounts the provider routes behind Basic auth.
func (m *Mock) Register(r gin.IRouter, accounts gin.Accounts) {
	api := r.Group("/", gin.BasicAuth(accounts))
	api.POST("/autocomplete", m.autocomplete)
	api.POST("/hotels", m.hotels)
	api.POST("/region", m.region)
}

// simulate waits a random latency and may fail.
func (m *Mock) simulate(ctx context.Context) error {
	m.mu.Lock()
	latency := m.profile.minLatency
	if spread := m.profile.maxLatency - m.profile.minLatency; spread > 0 {
		latency += time.Duration(m.rng.Int63n(int64(spread)))
	}
	fail := m.rng.Float64() < m.profile.failureRate
	m.mu.Unlock()

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return context.Cause(ctx)
	}

	if fail {
		return errProviderUnavailable
	}
	return nil
}

func (m *Mock) unavailable(c *gin.Context, err error) {
	m.logger.Info("simulated failure", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": err.Error()})
}

func (m *Mock) autocomplete(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}
	if err := m.simulate(c.Request.Context()); err != nil {
		m.unavailable(c, err)
		return
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	regions := []region{}
	for _, r := range catalog.regions {
		if strings.Contains(strings.ToLower(r.Name), query) {
			regions = append(regions, r)
		}
	}
	hotels := []gin.H{}
	for _, h := range catalog.hotels {
		if strings.Contains(strings.ToLower(h.Name), query) {
			hotels = append(hotels, gin.H{"id": h.ID, "name": h.Name, "region_id": h.RegionID})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   gin.H{"regions": regions, "hotels": hotels},
	})
}

func (m *Mock) hotels(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}
	if err := m.simulate(c.Request.Context()); err != nil {
		m.unavailable(c, err)
		return
	}

	// Without ids the provider answers with no hotels field at all.
	if len(req.IDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{}})
		return
	}

	wanted := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		wanted[id] = true
	}
	hotels := []hotel{}
	for _, h := range catalog.hotels {
		if wanted[h.ID] {
			hotels = append(hotels, withRates(h))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{"hotels": hotels}})
}

func (m *Mock) region(c *gin.Context) {
	var req struct {
		RegionID int `json:"region_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}
	if err := m.simulate(c.Request.Context()); err != nil {
		m.unavailable(c, err)
		return
	}

	hotels := []gin.H{}
	for _, h := range catalog.hotels {
		if h.RegionID == req.RegionID {
			hotels = append(hotels, gin.H{"id": h.ID})
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{"hotels": hotels}})
}

func withRates(h hotel) hotel {
	h.Rates = []rate{{DailyPrices: h.prices}}
	return h
}
