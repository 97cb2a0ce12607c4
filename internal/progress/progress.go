// Package progress drives the staged "analyzing" indicator shown while
// a submission is in flight. It is purely cosmetic: stages advance on
// fixed timers and are not synchronized with actual backend progress.
package progress

import (
	"log/slog"
	"sync"
	"time"
)

// Stage is one cosmetic step of the indicator.
type Stage struct {
	Label    string
	Duration time.Duration
}

// DefaultStages returns the fixed sequence shown during analysis.
func DefaultStages() []Stage {
	return []Stage{
		{Label: "Processando imagem...", Duration: 2000 * time.Millisecond},
		{Label: "Extraindo dados do boleto...", Duration: 2500 * time.Millisecond},
		{Label: "Analisando autenticidade...", Duration: 2000 * time.Millisecond},
		{Label: "Verificando padrões suspeitos...", Duration: 1500 * time.Millisecond},
		{Label: "Finalizando análise...", Duration: 1000 * time.Millisecond},
	}
}

// Update is one indicator refresh.
type Update struct {
	Percent    int
	StageIndex int
	Label      string
	Done       bool
}

// Indicator is a running progress display. Start hands the owner a
// handle; Stop must be called on teardown so no timer goroutine leaks.
type Indicator struct {
	stages   []Stage
	tick     time.Duration
	onUpdate func(Update)
	logger   *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Start begins emitting updates on a fixed tick. onUpdate runs on the
// indicator's goroutine and must be quick.
func Start(stages []Stage, onUpdate func(Update), logger *slog.Logger) *Indicator {
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	if onUpdate == nil {
		onUpdate = func(Update) {}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ind := &Indicator{
		stages:   stages,
		tick:     100 * time.Millisecond,
		onUpdate: onUpdate,
		logger:   logger,
		done:     make(chan struct{}),
	}
	ind.wg.Add(1)
	go ind.run()
	return ind
}

func (i *Indicator) run() {
	defer i.wg.Done()

	var total time.Duration
	for _, s := range i.stages {
		total += s.Duration
	}

	ticker := time.NewTicker(i.tick)
	defer ticker.Stop()

	var elapsed, stageElapsed time.Duration
	stageIndex := 0

	for {
		select {
		case <-i.done:
			return
		case <-ticker.C:
			elapsed += i.tick
			stageElapsed += i.tick

			if stageElapsed >= i.stages[stageIndex].Duration && stageIndex < len(i.stages)-1 {
				stageIndex++
				stageElapsed = 0
			}

			percent := int(float64(elapsed) / float64(total) * 100)
			if percent > 100 {
				percent = 100
			}
			done := elapsed >= total

			i.onUpdate(Update{
				Percent:    percent,
				StageIndex: stageIndex,
				Label:      i.stages[stageIndex].Label,
				Done:       done,
			})
			if done {
				return
			}
		}
	}
}

// Stop cancels the indicator and waits for its goroutine to exit.
// Safe to call more than once and after natural completion.
func (i *Indicator) Stop() {
	i.stopOnce.Do(func() {
		close(i.done)
	})
	i.wg.Wait()
}
