// Package frames inspects the files an input pattern matches before they
// are handed to the encoder.
package frames

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"webpseq/pkg/imgutil"
)

// Inspect reads every path concurrently and returns one report per path,
// in input order. Per-file failures are recorded on the report; the
// returned error is set only when ctx ends the inspection early.
func Inspect(ctx context.Context, paths []string, updates chan<- ProgressUpdate) (Summary, []Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	summary := Summary{}
	reports := make([]Report, len(paths))
	if len(paths) == 0 {
		return summary, reports, nil
	}

	send := func(u ProgressUpdate) {
		if updates == nil {
			return
		}
		select {
		case updates <- u:
		case <-ctx.Done():
		}
	}
	send(ProgressUpdate{TotalDelta: len(paths)})

	jobs := make(chan Job)
	results := make(chan Result)

	workers := runtime.NumCPU()
	if workers > len(paths) {
		workers = len(paths)
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results)
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			reports[res.Index] = res.Report
			summary.Total++
			if res.Report.Err != nil {
				summary.Errors++
				send(ProgressUpdate{ErrorDelta: 1})
				continue
			}
			summary.Inspected++
			if !res.Report.Captured.IsZero() {
				summary.Captured++
			}
			send(ProgressUpdate{InspectedDelta: 1})
		}
	}()

	go func() {
		defer close(jobs)
		for i, path := range paths {
			select {
			case jobs <- Job{Index: i, Path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := ctx.Err(); err != nil {
		return summary, nil, err
	}
	return summary, reports, nil
}

func worker(ctx context.Context, jobs <-chan Job, results chan<- Result) {
	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		report := inspectFile(job.Path)
		select {
		case results <- Result{Index: job.Index, Report: report}:
		case <-ctx.Done():
			return
		}
	}
}

func inspectFile(path string) Report {
	report := Report{Path: path, Name: filepath.Base(path)}

	file, err := os.Open(path)
	if err != nil {
		report.Err = err
		return report
	}
	defer file.Close()

	kind, err := imgutil.SniffReader(file)
	if err != nil {
		report.Err = err
		return report
	}
	report.Kind = kind
	if kind == imgutil.KindUnknown {
		report.Err = ErrUnsupportedFormat
		return report
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		report.Err = err
		return report
	}
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		report.Err = fmt.Errorf("read %s dimensions: %w", kind, err)
		return report
	}
	report.Width, report.Height = cfg.Width, cfg.Height

	meta := readCapture(file, kind)
	report.Captured = meta.Captured
	report.Device = meta.Device
	return report
}

// readCapture never fails the frame: missing or malformed metadata only
// leaves the capture fields empty.
func readCapture(rs io.ReadSeeker, kind imgutil.Kind) captureInfo {
	var info captureInfo
	if kind.HasExif() {
		if got, err := analyzeExif(rs); err == nil {
			info = got
		}
	}
	if kind == imgutil.KindPNG && info.Captured.IsZero() {
		if ts, err := readPNGTime(rs); err == nil {
			info.Captured = ts
		}
	}
	return info
}
