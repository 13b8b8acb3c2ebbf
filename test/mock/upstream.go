// Package mock provides test doubles for the fare tracker.
// Upstream is a fake booking API designed for integration testing where we
// need configurable behavior (fares, blocks, failures, delays) on the wire.
package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/farewatch/fare-tracker/internal/domain"
)

const (
	searchPath       = "/search-variants-mono-brand-cartesian"
	destinationsPath = "/dependence-cities"
)

// Upstream is a configurable fake of the booking API's websky JSON endpoints.
// Every search request is answered from the configured fares; dates without
// a fare get an empty (no flights) answer.
type Upstream struct {
	server *httptest.Server

	mu                 sync.Mutex
	fares              map[string]float64
	blocks             map[string]int
	statuses           map[string]int
	destinations       map[string][]domain.City
	destinationsStatus map[string]int
	delay              time.Duration

	searchCalls       map[string]int
	destinationsCalls int
	inFlight          int
	maxInFlight       int
}

// NewUpstream starts a fake booking API. Call Close when done.
func NewUpstream() *Upstream {
	u := &Upstream{
		fares:              make(map[string]float64),
		blocks:             make(map[string]int),
		statuses:           make(map[string]int),
		destinations:       make(map[string][]domain.City),
		destinationsStatus: make(map[string]int),
		searchCalls:        make(map[string]int),
	}
	u.server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

// URL is the base URL to configure the client with.
func (u *Upstream) URL() string {
	return u.server.URL
}

// Close shuts the server down.
func (u *Upstream) Close() {
	u.server.Close()
}

func searchKey(origin, destination string, date domain.Date) string {
	return origin + "-" + destination + "-" + date.Upstream()
}

// WithFare configures the cheapest fare offered on a date.
func (u *Upstream) WithFare(origin, destination string, date domain.Date, price float64) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fares[searchKey(origin, destination, date)] = price
	return u
}

// WithBlocked answers the next times searches for a date with 403.
// A negative times blocks the date forever.
func (u *Upstream) WithBlocked(origin, destination string, date domain.Date, times int) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.blocks[searchKey(origin, destination, date)] = times
	return u
}

// WithStatus answers every search for a date with status.
func (u *Upstream) WithStatus(origin, destination string, date domain.Date, status int) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.statuses[searchKey(origin, destination, date)] = status
	return u
}

// WithDestinations configures the cities served from origin.
func (u *Upstream) WithDestinations(origin string, codes ...string) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	cities := make([]domain.City, 0, len(codes))
	for _, code := range codes {
		cities = append(cities, domain.City{Code: code, NameEn: "City " + code, CountryEn: "Russia"})
	}
	u.destinations[origin] = cities
	return u
}

// WithDestinationsStatus answers destination discovery for origin with status.
func (u *Upstream) WithDestinationsStatus(origin string, status int) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.destinationsStatus[origin] = status
	return u
}

// WithDelay makes every search request take at least d.
func (u *Upstream) WithDelay(d time.Duration) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.delay = d
	return u
}

// SearchCalls returns the total number of search requests received.
func (u *Upstream) SearchCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	total := 0
	for _, n := range u.searchCalls {
		total += n
	}
	return total
}

// SearchCallsFor returns the number of search requests received for one date.
func (u *Upstream) SearchCallsFor(origin, destination string, date domain.Date) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.searchCalls[searchKey(origin, destination, date)]
}

// DestinationsCalls returns the number of discovery requests received.
func (u *Upstream) DestinationsCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.destinationsCalls
}

// MaxInFlight returns the peak number of concurrent search requests.
func (u *Upstream) MaxInFlight() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.maxInFlight
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch r.URL.Path {
	case searchPath:
		u.serveSearch(w, r)
	case destinationsPath:
		u.serveDestinations(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *Upstream) serveSearch(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseUpstreamDate(r.PostForm.Get("date[0]"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	key := searchKey(r.PostForm.Get("origin-city-code[0]"), r.PostForm.Get("destination-city-code[0]"), date)

	u.mu.Lock()
	u.searchCalls[key]++
	u.inFlight++
	if u.inFlight > u.maxInFlight {
		u.maxInFlight = u.inFlight
	}
	delay := u.delay
	status := u.statuses[key]
	if remaining, ok := u.blocks[key]; ok && remaining != 0 {
		status = http.StatusForbidden
		if remaining > 0 {
			u.blocks[key] = remaining - 1
		}
	}
	price, priced := u.fares[key]
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		u.inFlight--
		u.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	body := map[string]interface{}{
		"flights": []interface{}{},
		"prices":  []interface{}{},
	}
	if priced {
		body["flights"] = []map[string]interface{}{{
			"chainId": "c1",
			"flights": []map[string]string{{
				"racenumber":    "DP 405",
				"originport":    "VKO",
				"departuretime": "10:15",
				"arrivaltime":   "14:05",
			}},
		}}
		body["prices"] = []map[string]interface{}{{
			"c1": []map[string]interface{}{
				{"brand": "basic", "price": price, "available": 9},
				{"brand": "max", "price": price * 2, "available": 3},
			},
		}}
	}
	writeJSON(w, body)
}

func (u *Upstream) serveDestinations(w http.ResponseWriter, r *http.Request) {
	origin := r.PostForm.Get("cityCode")

	u.mu.Lock()
	u.destinationsCalls++
	status := u.destinationsStatus[origin]
	cities := u.destinations[origin]
	u.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	out := make([]map[string]string, 0, len(cities))
	for _, c := range cities {
		out = append(out, map[string]string{
			"codeEn":    c.Code,
			"nameEn":    c.NameEn,
			"countryEn": c.CountryEn,
		})
	}
	writeJSON(w, map[string]interface{}{"destination": out})
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
