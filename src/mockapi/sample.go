package mockapi

import (
	"fmt"
	"math"
)

// Sample is a small built-in dataset shaped like the real backend's output.
func Sample() *Dataset {
	return &Dataset{
		Trends: map[string][]MonthCount{
			"java":   monthly(2008, 1, 2024, 12, 1200, 0.9),
			"go":     monthly(2010, 1, 2024, 12, 40, 1.6),
			"python": monthly(2008, 1, 2024, 12, 600, 1.3),
		},
		Pairs: []Pair{
			{"java + multithreading", 4210},
			{"java + concurrency", 3120},
			{"java + synchronization", 1984},
			{"java + executorservice", 1502},
			{"java + thread-safety", 1220},
			{"java + deadlock", 874},
			{"java + volatile", 655},
			{"java + completable-future", 610},
			{"java + locking", 433},
			{"java + atomic", 390},
			{"java + race-condition", 288},
			{"java + threadpool", 251},
		},
		Words: []Word{
			{"deadlock", 96}, {"race", 88}, {"synchronized", 81}, {"volatile", 64},
			{"executor", 58}, {"lock", 55}, {"wait", 41}, {"notify", 37},
			{"atomic", 33}, {"interrupt", 29}, {"starvation", 18}, {"livelock", 11},
			{"semaphore", 9}, {"barrier", 6}, {"latch", 4},
		},
		Solvability: []Solvability{
			{"Trendiness", 12.5, 10.0},
			{"Difficulty", 3.2, 9.1},
			{"Popularity", 44, 21},
			{"Code Snippets", 0.71, 0.52},
		},
	}
}

// monthly fabricates a smooth, seasonal series from fromY-fromM to toY-toM.
func monthly(fromY, fromM, toY, toM int, base, growth float64) []MonthCount {
	var out []MonthCount
	i := 0
	for y, m := fromY, fromM; y < toY || (y == toY && m <= toM); i++ {
		t := float64(i) / 12
		v := base * math.Pow(growth, t/4) * (1 + 0.15*math.Sin(float64(m)/12*2*math.Pi))
		out = append(out, MonthCount{Month: fmt.Sprintf("%04d-%02d", y, m), Count: int64(v)})
		m++
		if m > 12 {
			m, y = 1, y+1
		}
	}
	return out
}
