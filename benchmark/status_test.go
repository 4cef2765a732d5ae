package benchmark

import (
	"net/http"
	"testing"
)

// Benchmarks against a locally running server:
//
//	rankwatchctl server
//	go test -bench . ./benchmark/...
func BenchmarkStatusEndpoint(b *testing.B) {
	b.Run("GET /", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("GET", "http://localhost:8000/", nil)
			_, _ = http.DefaultClient.Do(r)
		}
	})

	b.Run("GET /runs", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("GET", "http://localhost:8000/runs?limit=20", nil)
			_, _ = http.DefaultClient.Do(r)
		}
	})
}
