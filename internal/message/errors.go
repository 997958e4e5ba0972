package message

import "errors"

var ErrBadSampleJSON = errors.New("failed to unmarshal sample JSON")
