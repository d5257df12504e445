package recording

import (
	"log"

	"github.com/mohammadijoo/CahnHilliard_Go/src/cahnhilliard"
)

// runObserver feeds driver diagnostics of one run into a Recorder.
type runObserver struct {
	r     *Recorder
	runID string
}

// Observer returns a cahnhilliard.Observer that records energy checkpoints
// and progress lines under runID. Write failures are logged; they never stop
// the simulation.
func (r *Recorder) Observer(runID string) cahnhilliard.Observer {
	return &runObserver{r: r, runID: runID}
}

func (o *runObserver) ObserveEnergy(s cahnhilliard.EnergySample) {
	if err := o.r.RecordEnergy(o.runID, s); err != nil {
		log.Printf("recording energy at step %d: %v", s.Step, err)
	}
}

func (o *runObserver) ObserveProgress(p cahnhilliard.Progress) {
	if err := o.r.RecordProgress(o.runID, p); err != nil {
		log.Printf("recording progress at step %d: %v", p.Step, err)
	}
}
