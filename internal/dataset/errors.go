package dataset

import "errors"

var (
	ErrEmptyDataset    = errors.New("dataset has a header but no rows")
	ErrMissingHeader   = errors.New("dataset has no header row")
	ErrDuplicateColumn = errors.New("duplicate column name in header")
	ErrColumnNotFound  = errors.New("column not found in dataset")
	ErrNotBoolean      = errors.New("column is not a boolean column")
)
