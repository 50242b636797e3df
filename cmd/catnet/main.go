// Command catnet classifies 32x32 RGB images with the pretrained cat
// detector and prints p(cat) for each one.
//
//	catnet -weights snapshot -cifar data/test_batch.bin -limit 1000
//	catnet -weights snapshot -images ./pngs -profile
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/FlavioCFOliveira/catnet/internal/dataset"
	"github.com/FlavioCFOliveira/catnet/internal/kernel"
	"github.com/FlavioCFOliveira/catnet/internal/net"
	"github.com/FlavioCFOliveira/catnet/internal/volume"
)

func main() {
	weightsDir := flag.String("weights", "snapshot", "directory holding the layer weight files")
	imagesDir := flag.String("images", "", "directory of 32x32 PNG images")
	cifarPath := flag.String("cifar", "", "CIFAR-10 binary batch file")
	limit := flag.Int("limit", 0, "classify at most this many images (0 = all)")
	workers := flag.Int("workers", 0, "worker goroutines (0 = one per CPU)")
	class := flag.Int("class", net.CatClass, "output class reported as the score")
	threshold := flag.Float64("threshold", 0.5, "score at or above which an image counts as a hit")
	profile := flag.Bool("profile", false, "print per-layer timings")
	zero := flag.Bool("zero", false, "skip loading and use all-zero parameters")
	summary := flag.Bool("summary", false, "print the layer table before classifying")
	saveDir := flag.String("save", "", "write the network's weight files to this directory and exit")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix("catnet: ")

	network := net.New()
	if !*zero {
		var err error
		network, err = net.Load(*weightsDir)
		if err != nil {
			log.Fatal("Error loading weights:", err)
		}
	}

	if *saveDir != "" {
		if err := os.MkdirAll(*saveDir, 0o755); err != nil {
			log.Fatal("Error creating directory:", err)
		}
		if err := network.Save(*saveDir); err != nil {
			log.Fatal("Error saving weights:", err)
		}
		log.Printf("weights written to %s", *saveDir)
		return
	}

	if *summary {
		network.Summary(os.Stdout)
	}

	records, err := loadRecords(*imagesDir, *cifarPath)
	if err != nil {
		log.Fatal("Error loading images:", err)
	}
	if *limit > 0 && *limit < len(records) {
		records = records[:*limit]
	}
	if len(records) == 0 {
		log.Fatal("no images to classify; pass -images or -cifar")
	}

	inputs := make([]*volume.Volume, len(records))
	for i, r := range records {
		inputs[i] = r.Image
	}

	cfg := net.DefaultConfig()
	cfg.TargetClass = *class
	if *workers > 0 {
		cfg.Workers = *workers
	}
	var timings *net.Timings
	if *profile {
		timings = net.NewTimings()
		cfg.Profiler = timings
	}
	if cfg.TargetClass < 0 || cfg.TargetClass >= net.Classes {
		log.Fatalf("class %d out of range [0, %d)", cfg.TargetClass, net.Classes)
	}

	fmt.Printf("run %s\n", uuid.New())
	fmt.Printf("cpu %s\n", kernel.Describe())
	fmt.Printf("classifying %d images with %d workers\n\n", len(inputs), min(cfg.Workers, len(inputs)))

	start := time.Now()
	probs, err := net.Probabilities(network, inputs, cfg)
	if err != nil {
		log.Fatal("Error classifying:", err)
	}
	elapsed := time.Since(start)

	label := dataset.CIFAR10Labels[cfg.TargetClass]
	hits, correct, labelled := 0, 0, 0
	for i, p := range probs {
		score := p[cfg.TargetClass]
		verdict := "not-" + label
		if score >= *threshold {
			verdict = label
			hits++
		}
		top := argmax(p)
		fmt.Printf("%-24s p(%s)=%.4f  %-12s top=%s\n", records[i].Name, label, score, verdict, dataset.CIFAR10Labels[top])

		if records[i].Label >= 0 {
			labelled++
			if records[i].Label == top {
				correct++
			}
		}
	}

	fmt.Println()
	fmt.Printf("%d of %d images scored as %s\n", hits, len(probs), label)
	if labelled > 0 {
		fmt.Printf("top-1 accuracy: %.2f%% (%d/%d)\n", 100*float64(correct)/float64(labelled), correct, labelled)
	}
	fmt.Printf("elapsed: %v (%.1f images/s)\n", elapsed, float64(len(probs))/elapsed.Seconds())

	if timings != nil {
		fmt.Println()
		timings.Report(os.Stdout)
	}
}

func loadRecords(imagesDir, cifarPath string) ([]dataset.Record, error) {
	var records []dataset.Record
	if imagesDir != "" {
		rs, err := dataset.LoadPNGDir(imagesDir)
		if err != nil {
			return nil, err
		}
		records = append(records, rs...)
	}
	if cifarPath != "" {
		rs, err := dataset.LoadCIFAR10File(cifarPath)
		if err != nil {
			return nil, err
		}
		records = append(records, rs...)
	}
	return records, nil
}

func argmax(p []float64) int {
	best := 0
	for i, v := range p {
		if v > p[best] {
			best = i
		}
	}
	return best
}
