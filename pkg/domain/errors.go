package domain

import "errors"

// ErrEmptyQuestion is returned when a run is started without a question.
var ErrEmptyQuestion = errors.New("empty question")

// ErrNoAnswer is returned when the run fails before any answer-producing
// node has run. Later faults degrade to a marker answer instead.
var ErrNoAnswer = errors.New("no answer could be produced")
