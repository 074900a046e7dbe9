package dataset

import "errors"

var (
	// ErrEmptyDataset means there were no playlist rows left to aggregate.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrMissingColumn means the header lacks Artist, Host or DateTime.
	ErrMissingColumn = errors.New("dataset is missing a required column")

	// ErrUnsupportedFormat means the file extension is not recognised.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)
