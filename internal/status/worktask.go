package status

import "fmt"

// WorkTaskStatus is the stage of a designer assignment. Work tasks move in
// lock-step with their order, driven by the orchestrator.
type WorkTaskStatus int

const (
	TaskConsultingAndSketch WorkTaskStatus = iota
	TaskDoneConsulting
	TaskDesign
	TaskDoneDesign
)

var taskNames = []string{
	"ConsultingAndSketch",
	"DoneConsulting",
	"Design",
	"DoneDesign",
}

func (s WorkTaskStatus) Valid() bool {
	return s >= TaskConsultingAndSketch && s <= TaskDoneDesign
}

func (s WorkTaskStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("WorkTaskStatus(%d)", int(s))
	}
	return taskNames[int(s)]
}
