package main

import (
	"math"
	"net/http"
	"testing"
	"time"
)

func TestAccessStatsSummary(t *testing.T) {
	a := newAccessStats()
	a.record(http.StatusOK, 100, 10*time.Millisecond)
	a.record(http.StatusOK, 200, 20*time.Millisecond)
	a.record(http.StatusNotFound, 19, 30*time.Millisecond)
	a.record(http.StatusNotImplemented, 0, 40*time.Millisecond)

	s, err := a.summary()
	if err != nil {
		t.Fatal(err)
	}

	if s.Requests != 4 {
		t.Errorf("Unexpected Requests, want: 4, got: %d", s.Requests)
	}
	if s.Errors != 2 {
		t.Errorf("Unexpected Errors, want: 2, got: %d", s.Errors)
	}
	if s.TotalBytes != 319 {
		t.Errorf("Unexpected TotalBytes, want: 319, got: %d", s.TotalBytes)
	}
	if !floatEquals(s.AvgLatencyMs, 25) {
		t.Errorf("Unexpected AvgLatencyMs, want: 25, got: %.2f", s.AvgLatencyMs)
	}
	if !floatEquals(s.StdLatencyMs, math.Sqrt(125)) {
		t.Errorf("Unexpected StdLatencyMs, want: %.2f, got: %.2f", math.Sqrt(125), s.StdLatencyMs)
	}
	if !floatEquals(s.P95LatencyMs, 35) {
		t.Errorf("Unexpected P95LatencyMs, want: 35, got: %.2f", s.P95LatencyMs)
	}
}

func TestAccessStatsEmpty(t *testing.T) {
	s, err := newAccessStats().summary()
	if err != nil {
		t.Fatal(err)
	}
	if *s != (stat{}) {
		t.Errorf("Unexpected summary for no requests, got: %+v", *s)
	}
}

func TestAccessStatsSingle(t *testing.T) {
	a := newAccessStats()
	a.record(http.StatusOK, 5, 7*time.Millisecond)

	s, err := a.summary()
	if err != nil {
		t.Fatal(err)
	}
	if !floatEquals(s.AvgLatencyMs, 7) || !floatEquals(s.P95LatencyMs, 7) || !floatEquals(s.StdLatencyMs, 0) {
		t.Errorf("Unexpected summary for one request, got: %+v", *s)
	}
}

func floatEquals(a, b float64) bool {
	const EPSILON float64 = 0.00000001
	return (a-b) < EPSILON && (b-a) < EPSILON
}
