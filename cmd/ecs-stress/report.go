package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/embark/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Enemies  int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	DrawTime       Stats
	DrawCalls      int64
	EntitiesEnd    int
	Schedulers     []SchedulerReport
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type SchedulerReport struct {
	Name  string
	Stats *ecs.SchedulerStats
}

// Stats summarizes a series of frame durations.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}
	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, sample := range sorted {
		total += sample
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Avg = total / time.Duration(len(sorted))
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

const reportTemplate = `
# Pipeline Stress Test Report

## Arena
- **Run Duration:** {{.Duration}}
- **Entities:** {{.Entities}} at start, {{.EntitiesEnd}} at end
- **Enemies:** {{.Enemies}}

## Frames
- **Ticks:** {{.TotalUpdates}} in {{.TotalTime}}
- **Tick:** avg {{.UpdateTime.Avg}}, p99 {{.UpdateTime.P99}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}
- **Draw:** avg {{.DrawTime.Avg}}, p99 {{.DrawTime.P99}}, min {{.DrawTime.Min}}, max {{.DrawTime.Max}}
- **Draw Calls:** {{.DrawCalls}}
{{range .Schedulers}}
## Scheduler {{.Name}} ({{.Stats.SystemCount}} systems, {{.Stats.TotalExecutions}} runs)
| System | Runs | Avg | Max | Total |
|---|---|---|---|---|
{{range .Stats.Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} | {{.TotalDuration}} |
{{end}}{{end}}
## Memory
- Heap Alloc:  {{mb .MemStatsStart.HeapAlloc}} MiB -> {{mb .MemStatsEnd.HeapAlloc}} MiB
- Total Alloc: {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}} MiB during the run
- Num GC:      {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pauses
- **Total GC Pause:** {{ns (bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) uint64 {
			if a < b {
				return 0
			}
			return a - b
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
