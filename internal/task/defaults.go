package task

// defaults is the seed list installed when the store holds nothing usable.
// It is never handed out directly.
var defaults = []Task{
	{ID: 1, Title: "Walk the dog", Completed: false},
}

// Defaults returns a fresh copy of the compiled-in default dataset.
func Defaults() []Task {
	return Clone(defaults)
}
