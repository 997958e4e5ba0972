package samplerate

import "errors"

var (
	ErrUnparseableTimeFormat     = errors.New("time column could not be parsed as datetimes")
	ErrInsufficientSamples       = errors.New("fewer than 2 samples, sampling rate is undefined")
	ErrMisalignedAuxiliaryColumn = errors.New("auxiliary column length does not match time series")
)
