package net

import (
	"runtime"
	"testing"
)

func BenchmarkPredict(b *testing.B) {
	n := randomNetwork(1)
	img := randomImages(2, 1)[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.Predict(img)
	}
}

func BenchmarkClassify(b *testing.B) {
	n := randomNetwork(1)
	images := randomImages(2, 256)

	for _, workers := range []int{1, runtime.NumCPU()} {
		cfg := DefaultConfig()
		cfg.Workers = workers
		b.Run(workerName(workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Classify(n, images, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func workerName(n int) string {
	if n == 1 {
		return "serial"
	}
	return "parallel"
}
